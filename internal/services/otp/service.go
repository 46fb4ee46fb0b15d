// Package otp handles email verification codes. A verified account gets
// its USER wallet opened with the signup bonus balance.
package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"time"

	"digiwallet/internal/models"
	"digiwallet/internal/repositories"
	"digiwallet/internal/repositories/cache"
	"digiwallet/internal/utils"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyVerified = errors.New("account is already verified")
	ErrCodeExpired     = errors.New("verification code has expired")
	ErrCodeMismatch    = errors.New("verification code is incorrect")
)

const (
	codeTTL = 5 * time.Minute

	// signupBonus is the opening balance of a freshly verified account.
	signupBonus = 50000.0
)

// Sender delivers a verification code to an address. The default
// implementation only logs; a mail provider can be plugged in.
type Sender interface {
	Send(ctx context.Context, email, code string) error
}

// LogSender writes codes to the process log. Development default.
type LogSender struct{}

func (LogSender) Send(_ context.Context, email, code string) error {
	log.Printf("verification code for %s: %s", email, code)
	return nil
}

type Service interface {
	// SendCode issues a fresh code for the account, replacing any
	// outstanding one.
	SendCode(ctx context.Context, email string) error

	// VerifyCode checks the code, marks the account verified, and
	// opens its wallet.
	VerifyCode(ctx context.Context, email, code string) (*models.Wallet, error)
}

type service struct {
	store  repositories.Store
	cache  *cache.CacheService
	sender Sender
}

func NewService(store repositories.Store, cacheService *cache.CacheService, sender Sender) Service {
	if store == nil {
		panic("store is required")
	}
	if cacheService == nil {
		panic("cache service is required")
	}
	if sender == nil {
		sender = LogSender{}
	}
	return &service{store: store, cache: cacheService, sender: sender}
}

func (s *service) SendCode(ctx context.Context, email string) error {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	if err := s.cache.SetString(ctx, cache.OTPKey(email), code, codeTTL); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	return s.sender.Send(ctx, email, code)
}

func (s *service) VerifyCode(ctx context.Context, email, code string) (*models.Wallet, error) {
	stored, found, err := s.cache.GetString(ctx, cache.OTPKey(email))
	if err != nil {
		return nil, fmt.Errorf("failed to read code: %w", err)
	}
	if !found {
		return nil, ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return nil, ErrCodeMismatch
	}

	var wallet *models.Wallet
	err = s.store.Atomically(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.IsVerified {
			return ErrAlreadyVerified
		}
		if err := tx.Users().MarkVerified(ctx, user.ID); err != nil {
			return err
		}
		wallet, err = tx.Wallets().CreateWithInitialBalance(ctx, user.ID, models.WalletTypeUser, signupBonus)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cache.OTPKey(email)); err != nil {
		log.Printf("failed to delete used code for %s: %v", email, err)
	}
	return wallet, nil
}
