package repositories

import (
	"context"
	"errors"
	"time"

	"digiwallet/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines user persistence. The transfer engine only
// reads users (id, role, PIN hash); writes belong to onboarding.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetPin(ctx context.Context, userID uint, pinHash string) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	UpdateRole(ctx context.Context, userID uint, role models.UserRole) error
	SetActive(ctx context.Context, userID uint, state string) error
	MarkVerified(ctx context.Context, userID uint) error
	List(ctx context.Context, q ListQuery) ([]models.User, Meta, error)

	// Aggregations for the stats layer.
	CountAll(ctx context.Context) (int64, error)
	CountByActive(ctx context.Context, state string) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountByRole(ctx context.Context) (map[models.UserRole]int64, error)
}
