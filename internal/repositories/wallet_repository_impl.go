package repositories

import (
	"context"
	"errors"
	"fmt"

	"digiwallet/internal/models"
	"digiwallet/internal/utils"

	"gorm.io/gorm"
)

// walletNumberAttempts bounds the collision-retry loop at creation time.
const walletNumberAttempts = 5

// Wallet listing accepts these query params as filters and sort keys.
var walletColumns = map[string]string{
	"walletType":   "wallet_type",
	"walletStatus": "wallet_status",
	"userId":       "user_id",
	"createdAt":    "created_at",
	"balance":      "balance",
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) CreateWithInitialBalance(ctx context.Context, userID uint, walletType models.WalletType, initialBalance float64) (*models.Wallet, error) {
	for attempt := 0; attempt < walletNumberAttempts; attempt++ {
		number, err := utils.GenerateWalletNumber()
		if err != nil {
			return nil, fmt.Errorf("failed to generate wallet number: %w", err)
		}

		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Wallet{}).
			Where("wallet_number = ?", number).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check wallet number: %w", err)
		}
		if count > 0 {
			continue
		}

		wallet := &models.Wallet{
			WalletNumber: number,
			UserID:       userID,
			Balance:      initialBalance,
			WalletType:   walletType,
			WalletStatus: models.WalletStatusActive,
		}
		if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrDuplicateWallet
			}
			return nil, fmt.Errorf("failed to create wallet: %w", err)
		}
		return wallet, nil
	}
	return nil, fmt.Errorf("failed to allocate a unique wallet number after %d attempts", walletNumberAttempts)
}

func (r *walletRepository) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByWalletNumber(ctx context.Context, number string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("wallet_number = ?", number).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by number: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by user: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByType(ctx context.Context, walletType models.WalletType) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("wallet_type = ?", walletType).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by type: %w", err)
	}
	return &wallet, nil
}

// IncrementBalance applies a signed delta. The non-negative guard rides
// inside the UPDATE itself, so racing debits cannot drive a balance
// below zero.
func (r *walletRepository) IncrementBalance(ctx context.Context, walletID uint, delta float64) error {
	result := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ? AND balance + ? >= 0", walletID, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to update balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Wallet{}).
			Where("id = ?", walletID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		if count == 0 {
			return ErrWalletNotFound
		}
		return ErrInsufficientFunds
	}
	return nil
}

func (r *walletRepository) UpdateStatus(ctx context.Context, walletID uint, status models.WalletStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ?", walletID).Update("wallet_status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) UpdateType(ctx context.Context, walletID uint, walletType models.WalletType) error {
	result := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ?", walletID).Update("wallet_type", walletType)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) List(ctx context.Context, q ListQuery) ([]models.Wallet, Meta, error) {
	base := q.apply(r.db.WithContext(ctx).Model(&models.Wallet{}), "wallet_number", walletColumns).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("failed to count wallets: %w", err)
	}

	var wallets []models.Wallet
	err := base.
		Order(orderClause(q.Sort, walletColumns, "created_at DESC")).
		Limit(q.limit()).
		Offset(q.offset()).
		Find(&wallets).Error
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, q.meta(total), nil
}
