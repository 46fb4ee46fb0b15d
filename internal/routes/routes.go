// Package routes wires repositories, services, and handlers into the
// fiber app and declares every route group.
package routes

import (
	"context"
	"time"

	"digiwallet/internal/handlers"
	"digiwallet/internal/middleware"
	"digiwallet/internal/models"
	"digiwallet/internal/repositories"
	"digiwallet/internal/repositories/cache"
	"digiwallet/internal/services/auth"
	"digiwallet/internal/services/fee"
	"digiwallet/internal/services/otp"
	"digiwallet/internal/services/stats"
	"digiwallet/internal/services/transfer"
	"digiwallet/internal/services/user"
	"digiwallet/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// walletCacheInvalidator adapts the cache service to the transfer
// engine's invalidation hook.
type walletCacheInvalidator struct {
	cache *cache.CacheService
}

func (i walletCacheInvalidator) InvalidateWallet(ctx context.Context, userID uint) error {
	return i.cache.Delete(ctx, cache.WalletKey(userID))
}

// Config carries route-level settings resolved at startup.
type Config struct {
	AdminWalletID uint
}

// SetupRoutes builds the dependency graph and registers all routes.
func SetupRoutes(app *fiber.App, cfg Config) {
	store := repositories.NewStore(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB)
	ledgerRepo := repositories.NewTransactionRepository(repositories.DB)

	var invalidator transfer.CacheInvalidator
	if repositories.CacheService != nil {
		invalidator = walletCacheInvalidator{cache: repositories.CacheService}
	}

	transferService := transfer.NewService(store, fee.NewCalculator(), invalidator, transfer.Config{
		AdminWalletID: cfg.AdminWalletID,
	})
	walletService := wallet.NewService(store, repositories.CacheService)
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	otpService := otp.NewService(store, repositories.CacheService, nil)
	statsService := stats.NewService(userRepo, ledgerRepo)

	authHandler := handlers.NewAuthHandler(authService)
	otpHandler := handlers.NewOTPHandler(otpService)
	userHandler := handlers.NewUserHandler(userService)
	walletHandler := handlers.NewWalletHandler(walletService)
	transactionHandler := handlers.NewTransactionHandler(transferService)
	statsHandler := handlers.NewStatsHandler(statsService)

	api := app.Group("/api")

	// Brute-force protection on the credential endpoints only.
	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})

	authGroup := api.Group("/auth")
	authGroup.Post("/register", loginLimiter, authHandler.Register)
	authGroup.Post("/login", loginLimiter, authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/change-password", middleware.Authenticate, authHandler.ChangePassword)
	authGroup.Post("/otp/send", otpHandler.Send)
	authGroup.Post("/otp/verify", otpHandler.Verify)

	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	userGroup := api.Group("/user", middleware.Authenticate)
	userGroup.Get("/me", userHandler.Me)
	userGroup.Post("/set-pin", userHandler.SetPin)
	userGroup.Post("/change-pin", userHandler.ChangePin)
	userGroup.Get("/get-all", adminOnly, userHandler.List)
	userGroup.Get("/:userId", adminOnly, userHandler.Get)
	userGroup.Patch("/:userId/active", adminOnly, userHandler.SetActive)

	walletGroup := api.Group("/wallet", middleware.Authenticate)
	walletGroup.Get("/my-wallet", walletHandler.GetMine)
	walletGroup.Get("/by-number/:walletNumber", walletHandler.GetByNumber)
	walletGroup.Get("/get-all", adminOnly, walletHandler.List)
	walletGroup.Patch("/:id/status", adminOnly, walletHandler.UpdateStatus)
	walletGroup.Patch("/:id/promote", adminOnly, walletHandler.Promote)

	txGroup := api.Group("/transaction", middleware.Authenticate)
	txGroup.Post("/create", transactionHandler.Create)
	txGroup.Get("/my-transactions", transactionHandler.ListMine)
	txGroup.Get("/get-all", adminOnly, transactionHandler.List)
	txGroup.Get("/:transactionId", adminOnly, transactionHandler.Get)

	statsGroup := api.Group("/stats", middleware.Authenticate, adminOnly)
	statsGroup.Get("/users", statsHandler.Users)
	statsGroup.Get("/transactions", statsHandler.Transactions)
}
