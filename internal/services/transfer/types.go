package transfer

import (
	"context"

	"digiwallet/internal/models"
	"digiwallet/internal/repositories"
)

// MinTransferAmount is the default minimum amount accepted by Execute.
const MinTransferAmount = 50.0

// Request is one validated transfer attempt. ActorUserID comes from the
// authentication layer, never from the request body.
type Request struct {
	ActorUserID  uint
	WalletNumber string // destination wallet
	Amount       float64
	Type         models.TransactionType
	Pin          string
	Reference    string
}

// Result is returned on a committed transfer.
type Result struct {
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// Config holds the engine's fixed collaborator references.
// AdminWalletID is the singular ADMIN fee-sink wallet, resolved once at
// startup rather than re-queried per transfer.
type Config struct {
	MinAmount     float64
	AdminWalletID uint
}

// CacheInvalidator drops cached wallet reads after a balance mutation.
type CacheInvalidator interface {
	InvalidateWallet(ctx context.Context, userID uint) error
}

// Service executes transfers and serves ledger read queries.
type Service interface {
	Execute(ctx context.Context, req Request) (*Result, error)
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, q repositories.ListQuery) ([]models.Transaction, repositories.Meta, error)
	ListMyTransactions(ctx context.Context, userID uint, q repositories.ListQuery) ([]models.Transaction, repositories.Meta, error)
}
