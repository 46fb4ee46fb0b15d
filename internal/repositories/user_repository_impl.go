package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digiwallet/internal/models"

	"gorm.io/gorm"
)

// User listings accept these query params as filters and sort keys.
var userColumns = map[string]string{
	"role":      "role",
	"isActive":  "is_active",
	"createdAt": "created_at",
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) SetPin(ctx context.Context, userID uint, pinHash string) error {
	return r.updateColumn(ctx, userID, "pin", pinHash)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return r.updateColumn(ctx, userID, "password", passwordHash)
}

func (r *userRepository) UpdateRole(ctx context.Context, userID uint, role models.UserRole) error {
	return r.updateColumn(ctx, userID, "role", role)
}

func (r *userRepository) SetActive(ctx context.Context, userID uint, state string) error {
	return r.updateColumn(ctx, userID, "is_active", state)
}

func (r *userRepository) MarkVerified(ctx context.Context, userID uint) error {
	return r.updateColumn(ctx, userID, "is_verified", true)
}

func (r *userRepository) updateColumn(ctx context.Context, userID uint, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update user %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, q ListQuery) ([]models.User, Meta, error) {
	base := q.apply(r.db.WithContext(ctx).Model(&models.User{}), "email", userColumns).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	err := base.
		Order(orderClause(q.Sort, userColumns, "created_at DESC")).
		Limit(q.limit()).
		Offset(q.offset()).
		Find(&users).Error
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to list users: %w", err)
	}
	return users, q.meta(total), nil
}

func (r *userRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) CountByActive(ctx context.Context, state string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_active = ?", state).Count(&count).Error
	return count, err
}

func (r *userRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *userRepository) CountByRole(ctx context.Context) (map[models.UserRole]int64, error) {
	type row struct {
		Role  models.UserRole
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}

	counts := make(map[models.UserRole]int64, len(rows))
	for _, r := range rows {
		counts[r.Role] = r.Count
	}
	return counts, nil
}
