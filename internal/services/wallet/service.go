// Package wallet exposes wallet lookup and administration on top of the
// wallet repository, with cache-aside reads for the owner's own wallet.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"

	"digiwallet/internal/models"
	"digiwallet/internal/repositories"
	"digiwallet/internal/repositories/cache"
)

// Service is the wallet-facing API consumed by the HTTP handlers.
type Service interface {
	// GetMyWallet returns the caller's own wallet, served from cache
	// when possible.
	GetMyWallet(ctx context.Context, userID uint) (*models.Wallet, error)

	// GetByWalletNumber resolves a wallet by its public number.
	GetByWalletNumber(ctx context.Context, number string) (*models.Wallet, error)

	// List pages through all wallets. Admin surface.
	List(ctx context.Context, q repositories.ListQuery) ([]models.Wallet, repositories.Meta, error)

	// UpdateStatus activates or suspends a wallet. Admin surface.
	UpdateStatus(ctx context.Context, walletID uint, status models.WalletStatus) (*models.Wallet, error)

	// PromoteToMerchant retypes a USER wallet to MERCHANT and grants
	// the owner the AGENT role in the same atomic unit. Admin surface.
	PromoteToMerchant(ctx context.Context, walletID uint) (*models.Wallet, error)

	// CreateForUser opens a wallet of the given type with an opening
	// balance. Used by onboarding.
	CreateForUser(ctx context.Context, userID uint, walletType models.WalletType, balance float64) (*models.Wallet, error)
}

type service struct {
	store repositories.Store
	cache *cache.CacheService
}

func NewService(store repositories.Store, cacheService *cache.CacheService) Service {
	if store == nil {
		panic("store is required")
	}
	return &service{store: store, cache: cacheService}
}

func (s *service) GetMyWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if s.cache != nil {
		var cached models.Wallet
		found, err := s.cache.Get(ctx, cache.WalletKey(userID), &cached)
		if err != nil {
			log.Printf("wallet cache read failed for user %d: %v", userID, err)
		} else if found {
			return &cached, nil
		}
	}

	w, err := s.store.Wallets().GetByUserID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.WalletKey(userID), w); err != nil {
			log.Printf("wallet cache write failed for user %d: %v", userID, err)
		}
	}
	return w, nil
}

func (s *service) GetByWalletNumber(ctx context.Context, number string) (*models.Wallet, error) {
	w, err := s.store.Wallets().GetByWalletNumber(ctx, number)
	if err != nil {
		return nil, translate(err)
	}
	return w, nil
}

func (s *service) List(ctx context.Context, q repositories.ListQuery) ([]models.Wallet, repositories.Meta, error) {
	return s.store.Wallets().List(ctx, q)
}

func (s *service) UpdateStatus(ctx context.Context, walletID uint, status models.WalletStatus) (*models.Wallet, error) {
	w, err := s.store.Wallets().GetByID(ctx, walletID)
	if err != nil {
		return nil, translate(err)
	}
	if w.WalletType == models.WalletTypeAdmin {
		return nil, ErrAdminWalletImmutable
	}

	if err := s.store.Wallets().UpdateStatus(ctx, walletID, status); err != nil {
		return nil, translate(err)
	}
	s.invalidate(ctx, w.UserID)
	w.WalletStatus = status
	return w, nil
}

func (s *service) PromoteToMerchant(ctx context.Context, walletID uint) (*models.Wallet, error) {
	var promoted *models.Wallet
	err := s.store.Atomically(ctx, func(tx repositories.Store) error {
		w, err := tx.Wallets().GetByID(ctx, walletID)
		if err != nil {
			return err
		}
		switch w.WalletType {
		case models.WalletTypeAdmin:
			return ErrAdminWalletImmutable
		case models.WalletTypeMerchant:
			return ErrAlreadyMerchant
		}

		if err := tx.Wallets().UpdateType(ctx, walletID, models.WalletTypeMerchant); err != nil {
			return err
		}
		if err := tx.Users().UpdateRole(ctx, w.UserID, models.RoleAgent); err != nil {
			return err
		}
		w.WalletType = models.WalletTypeMerchant
		promoted = w
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyMerchant) || errors.Is(err, ErrAdminWalletImmutable) {
			return nil, err
		}
		return nil, translate(err)
	}

	s.invalidate(ctx, promoted.UserID)
	return promoted, nil
}

func (s *service) CreateForUser(ctx context.Context, userID uint, walletType models.WalletType, balance float64) (*models.Wallet, error) {
	w, err := s.store.Wallets().CreateWithInitialBalance(ctx, userID, walletType, balance)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return w, nil
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.WalletKey(userID)); err != nil {
		log.Printf("wallet cache invalidation failed for user %d: %v", userID, err)
	}
}

func translate(err error) error {
	if errors.Is(err, repositories.ErrWalletNotFound) {
		return ErrWalletNotFound
	}
	return err
}
