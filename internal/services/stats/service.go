// Package stats aggregates platform counters for the admin dashboard.
package stats

import (
	"context"
	"fmt"
	"time"

	"digiwallet/internal/models"
	"digiwallet/internal/repositories"
)

// UserStats summarizes the account base.
type UserStats struct {
	Total     int64                     `json:"total"`
	Active    int64                     `json:"active"`
	Blocked   int64                     `json:"blocked"`
	NewLast7  int64                     `json:"newInLast7Days"`
	NewLast30 int64                     `json:"newInLast30Days"`
	ByRole    map[models.UserRole]int64 `json:"byRole"`
}

// TransactionStats summarizes ledger activity.
type TransactionStats struct {
	Total     int64                            `json:"total"`
	Succeeded int64                            `json:"succeeded"`
	Failed    int64                            `json:"failed"`
	NewLast7  int64                            `json:"newInLast7Days"`
	NewLast30 int64                            `json:"newInLast30Days"`
	ByType    map[models.TransactionType]int64 `json:"byType"`
}

type Service interface {
	UserStats(ctx context.Context) (*UserStats, error)
	TransactionStats(ctx context.Context) (*TransactionStats, error)
}

type service struct {
	users  repositories.UserRepository
	ledger repositories.TransactionRepository
}

func NewService(users repositories.UserRepository, ledger repositories.TransactionRepository) Service {
	if users == nil || ledger == nil {
		panic("user and transaction repositories are required")
	}
	return &service{users: users, ledger: ledger}
}

func (s *service) UserStats(ctx context.Context) (*UserStats, error) {
	now := time.Now()
	out := &UserStats{}

	var err error
	if out.Total, err = s.users.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if out.Active, err = s.users.CountByActive(ctx, models.UserActive); err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}
	if out.Blocked, err = s.users.CountByActive(ctx, models.UserBlocked); err != nil {
		return nil, fmt.Errorf("failed to count blocked users: %w", err)
	}
	if out.NewLast7, err = s.users.CountCreatedSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, fmt.Errorf("failed to count recent users: %w", err)
	}
	if out.NewLast30, err = s.users.CountCreatedSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return nil, fmt.Errorf("failed to count recent users: %w", err)
	}
	if out.ByRole, err = s.users.CountByRole(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	return out, nil
}

func (s *service) TransactionStats(ctx context.Context) (*TransactionStats, error) {
	now := time.Now()
	out := &TransactionStats{}

	var err error
	if out.Total, err = s.ledger.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}
	if out.Succeeded, err = s.ledger.CountByStatus(ctx, models.TransactionStatusSuccess); err != nil {
		return nil, fmt.Errorf("failed to count succeeded transactions: %w", err)
	}
	if out.Failed, err = s.ledger.CountByStatus(ctx, models.TransactionStatusFailed); err != nil {
		return nil, fmt.Errorf("failed to count failed transactions: %w", err)
	}
	if out.NewLast7, err = s.ledger.CountCreatedSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, fmt.Errorf("failed to count recent transactions: %w", err)
	}
	if out.NewLast30, err = s.ledger.CountCreatedSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return nil, fmt.Errorf("failed to count recent transactions: %w", err)
	}
	if out.ByType, err = s.ledger.CountByType(ctx); err != nil {
		return nil, fmt.Errorf("failed to count transactions by type: %w", err)
	}
	return out, nil
}
