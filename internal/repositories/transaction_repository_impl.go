package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digiwallet/internal/models"

	"gorm.io/gorm"
)

// Ledger listings accept these query params as filters and sort keys.
var transactionColumns = map[string]string{
	"transactionType":   "transaction_type",
	"status":            "status",
	"fromWallet":        "from_wallet_id",
	"toWallet":          "to_wallet_id",
	"createdAt":         "created_at",
	"transactionAmount": "transaction_amount",
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Append(ctx context.Context, record *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to append ledger record: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	var record models.Transaction
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &record, nil
}

func (r *transactionRepository) List(ctx context.Context, q ListQuery) ([]models.Transaction, Meta, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Transaction{}), q)
}

func (r *transactionRepository) ListByWallet(ctx context.Context, walletID uint, q ListQuery) ([]models.Transaction, Meta, error) {
	scoped := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("from_wallet_id = ? OR to_wallet_id = ?", walletID, walletID)
	return r.list(ctx, scoped, q)
}

func (r *transactionRepository) list(ctx context.Context, db *gorm.DB, q ListQuery) ([]models.Transaction, Meta, error) {
	base := q.apply(db, "transaction_id", transactionColumns).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("failed to count transactions: %w", err)
	}

	var records []models.Transaction
	err := base.
		Order(orderClause(q.Sort, transactionColumns, "created_at DESC")).
		Limit(q.limit()).
		Offset(q.offset()).
		Find(&records).Error
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	return records, q.meta(total), nil
}

func (r *transactionRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&count).Error
	return count, err
}

func (r *transactionRepository) CountByStatus(ctx context.Context, status models.TransactionStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *transactionRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *transactionRepository) CountByType(ctx context.Context) (map[models.TransactionType]int64, error) {
	type row struct {
		TransactionType models.TransactionType
		Count           int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("transaction_type, COUNT(*) as count").
		Group("transaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions by type: %w", err)
	}

	counts := make(map[models.TransactionType]int64, len(rows))
	for _, r := range rows {
		counts[r.TransactionType] = r.Count
	}
	return counts, nil
}
