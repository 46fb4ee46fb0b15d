package repositories

import (
	"context"
	"errors"

	"digiwallet/internal/models"
)

var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateWallet   = errors.New("wallet already exists")
)

// WalletRepository defines the wallet-related database operations.
// When obtained from a Store inside Atomically, every call runs in the
// same database transaction as its siblings.
type WalletRepository interface {
	// CreateWithInitialBalance creates a wallet for a user, generating a
	// collision-checked 13-digit wallet number. Used by onboarding and
	// bootstrap only; transfers never create wallets.
	CreateWithInitialBalance(ctx context.Context, userID uint, walletType models.WalletType, initialBalance float64) (*models.Wallet, error)

	GetByID(ctx context.Context, id uint) (*models.Wallet, error)
	GetByWalletNumber(ctx context.Context, number string) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	// GetByType locates a wallet by type; used to resolve the singular
	// ADMIN fee-sink wallet at startup.
	GetByType(ctx context.Context, walletType models.WalletType) (*models.Wallet, error)

	// IncrementBalance applies a signed delta to a wallet balance as a
	// single conditional update. It fails with ErrInsufficientFunds when
	// the delta would drive the balance negative, regardless of what any
	// earlier read reported.
	IncrementBalance(ctx context.Context, walletID uint, delta float64) error

	UpdateStatus(ctx context.Context, walletID uint, status models.WalletStatus) error
	UpdateType(ctx context.Context, walletID uint, walletType models.WalletType) error

	List(ctx context.Context, q ListQuery) ([]models.Wallet, Meta, error)
}
