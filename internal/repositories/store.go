package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories behind a single transactional boundary.
// Atomically runs fn against a Store whose repositories all share one
// database transaction: every read and write inside fn commits together
// or not at all.
type Store interface {
	Wallets() WalletRepository
	Ledger() TransactionRepository
	Users() UserRepository

	Atomically(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm handle in a Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Wallets() WalletRepository {
	return &walletRepository{db: s.db}
}

func (s *gormStore) Ledger() TransactionRepository {
	return &transactionRepository{db: s.db}
}

func (s *gormStore) Users() UserRepository {
	return &userRepository{db: s.db}
}

func (s *gormStore) Atomically(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
