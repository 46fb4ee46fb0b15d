package repositories

import (
	"context"
	"errors"
	"time"

	"digiwallet/internal/models"
)

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
)

// TransactionRepository is the append-only ledger of completed transfers.
type TransactionRepository interface {
	// Append stores a new ledger record. Only called inside a transfer's
	// atomic unit; a duplicate transaction id fails the whole unit.
	Append(ctx context.Context, record *models.Transaction) error

	GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)

	// List returns filtered/paginated records plus pagination meta.
	List(ctx context.Context, q ListQuery) ([]models.Transaction, Meta, error)
	// ListByWallet restricts List to records touching the given wallet
	// on either side.
	ListByWallet(ctx context.Context, walletID uint, q ListQuery) ([]models.Transaction, Meta, error)

	// Aggregations for the stats layer.
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.TransactionStatus) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountByType(ctx context.Context) (map[models.TransactionType]int64, error)
}
