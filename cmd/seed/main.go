// Package main seeds the platform: the SUPER_ADMIN account with the
// singular ADMIN wallet (the fee sink), plus demo USER and MERCHANT
// accounts for local development. Safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"log"

	"digiwallet/internal/config"
	"digiwallet/internal/models"
	"digiwallet/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

type seedAccount struct {
	firstName  string
	lastName   string
	email      string
	phone      string
	role       models.UserRole
	walletType models.WalletType
	balance    float64
}

func main() {
	config.LoadEnv()

	adminEmail := config.GetEnv("ADMIN_EMAIL", "")
	adminPassword := config.GetEnv("ADMIN_PASSWORD", "")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close database connection: %v", err)
			}
		}
	}()

	accounts := []seedAccount{
		{
			firstName:  "Platform",
			lastName:   "Admin",
			email:      adminEmail,
			phone:      config.GetEnv("ADMIN_PHONE", ""),
			role:       models.RoleSuperAdmin,
			walletType: models.WalletTypeAdmin,
			balance:    0,
		},
		{
			firstName:  "Demo",
			lastName:   "Merchant",
			email:      "merchant@example.com",
			role:       models.RoleAgent,
			walletType: models.WalletTypeMerchant,
			balance:    5000,
		},
		{
			firstName:  "Demo",
			lastName:   "User",
			email:      "user@example.com",
			role:       models.RoleUser,
			walletType: models.WalletTypeUser,
			balance:    1000,
		},
	}

	ctx := context.Background()
	users := repositories.NewUserRepository(repositories.DB)
	wallets := repositories.NewWalletRepository(repositories.DB)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte(config.GetEnv("SEED_PIN", "12345")), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash pin: %v", err)
	}

	for _, acc := range accounts {
		user, err := users.GetByEmail(ctx, acc.email)
		switch {
		case err == nil:
			log.Printf("User %s already exists", acc.email)
		case errors.Is(err, repositories.ErrUserNotFound):
			user = &models.User{
				FirstName:  acc.firstName,
				LastName:   acc.lastName,
				Email:      acc.email,
				Password:   string(passwordHash),
				Phone:      acc.phone,
				Role:       acc.role,
				Pin:        string(pinHash),
				IsActive:   models.UserActive,
				IsVerified: true,
			}
			if err := users.Create(ctx, user); err != nil {
				log.Fatalf("Failed to create user %s: %v", acc.email, err)
			}
			log.Printf("Created user %s (%s)", acc.email, acc.role)
		default:
			log.Fatalf("Failed to look up user %s: %v", acc.email, err)
		}

		if _, err := wallets.GetByUserID(ctx, user.ID); err == nil {
			log.Printf("Wallet for %s already exists", acc.email)
			continue
		} else if !errors.Is(err, repositories.ErrWalletNotFound) {
			log.Fatalf("Failed to look up wallet for %s: %v", acc.email, err)
		}

		w, err := wallets.CreateWithInitialBalance(ctx, user.ID, acc.walletType, acc.balance)
		if err != nil {
			log.Fatalf("Failed to create wallet for %s: %v", acc.email, err)
		}
		log.Printf("Created %s wallet %s with balance %.2f", acc.walletType, w.WalletNumber, acc.balance)
	}

	log.Println("Seed completed")
}
