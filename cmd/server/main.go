// Package main is the HTTP API entry point. It loads configuration,
// connects PostgreSQL and Redis, resolves the platform admin wallet,
// and serves the fiber app.
package main

import (
	"context"
	"log"
	"time"

	"digiwallet/internal/config"
	"digiwallet/internal/middleware"
	"digiwallet/internal/models"
	"digiwallet/internal/repositories"
	"digiwallet/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Periodic connection pool stats for capacity tuning.
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
		}
	}()

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	// The fee sink. Every fee split credits this wallet, so refuse to
	// start without it; cmd/seed creates it.
	adminWallet, err := repositories.NewWalletRepository(repositories.DB).
		GetByType(context.Background(), models.WalletTypeAdmin)
	if err != nil {
		log.Fatalf("Admin wallet not found, run cmd/seed first: %v", err)
	}
	log.Printf("Admin wallet resolved: %s", adminWallet.WalletNumber)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestID)
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Config{AdminWalletID: adminWallet.ID})

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
