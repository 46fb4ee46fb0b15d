// Package user covers profile reads and transaction PIN management.
package user

import (
	"context"
	"errors"
	"fmt"

	"digiwallet/internal/models"
	"digiwallet/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPinTooShort        = errors.New("pin must be at least 5 characters")
	ErrPinAlreadySet      = errors.New("pin is already set")
	ErrPinMismatch        = errors.New("current pin is incorrect")
	ErrPinNotSet          = errors.New("no pin has been set")
	ErrInvalidActiveState = errors.New("state must be ACTIVE or BLOCKED")
	ErrCannotBlockAdmin   = errors.New("admin accounts cannot be blocked")
)

const minPinLength = 5

// Profile is the user's own view of their account.
type Profile struct {
	ID         uint            `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Role       models.UserRole `json:"role"`
	IsActive   string          `json:"is_active"`
	IsVerified bool            `json:"is_verified"`
	PinSet     bool            `json:"pin_set"`
}

type Service interface {
	Me(ctx context.Context, userID uint) (*Profile, error)
	SetPin(ctx context.Context, userID uint, pin string) error
	ChangePin(ctx context.Context, userID uint, currentPin, newPin string) error

	// Admin surface.
	List(ctx context.Context, q repositories.ListQuery) ([]Profile, repositories.Meta, error)
	Get(ctx context.Context, userID uint) (*Profile, error)
	SetActive(ctx context.Context, userID uint, state string) (*Profile, error)
}

type service struct {
	users repositories.UserRepository
}

func NewService(users repositories.UserRepository) Service {
	if users == nil {
		panic("user repository is required")
	}
	return &service{users: users}
}

func (s *service) Me(ctx context.Context, userID uint) (*Profile, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileOf(u), nil
}

// Get returns any user's profile. Admin surface.
func (s *service) Get(ctx context.Context, userID uint) (*Profile, error) {
	return s.Me(ctx, userID)
}

func (s *service) List(ctx context.Context, q repositories.ListQuery) ([]Profile, repositories.Meta, error) {
	users, meta, err := s.users.List(ctx, q)
	if err != nil {
		return nil, repositories.Meta{}, err
	}
	profiles := make([]Profile, len(users))
	for i := range users {
		profiles[i] = *profileOf(&users[i])
	}
	return profiles, meta, nil
}

// SetActive blocks or unblocks an account. Blocked accounts cannot log
// in; admin accounts cannot be blocked.
func (s *service) SetActive(ctx context.Context, userID uint, state string) (*Profile, error) {
	if state != models.UserActive && state != models.UserBlocked {
		return nil, ErrInvalidActiveState
	}
	u, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == models.UserBlocked &&
		(u.Role == models.RoleAdmin || u.Role == models.RoleSuperAdmin) {
		return nil, ErrCannotBlockAdmin
	}

	if err := s.users.SetActive(ctx, userID, state); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.IsActive = state
	return profileOf(u), nil
}

func profileOf(u *models.User) *Profile {
	return &Profile{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		PinSet:     u.Pin != "",
	}
}

// SetPin sets the transaction PIN for the first time. An existing PIN
// can only be replaced through ChangePin.
func (s *service) SetPin(ctx context.Context, userID uint, pin string) error {
	if len(pin) < minPinLength {
		return ErrPinTooShort
	}
	u, err := s.get(ctx, userID)
	if err != nil {
		return err
	}
	if u.Pin != "" {
		return ErrPinAlreadySet
	}
	return s.storePin(ctx, userID, pin)
}

func (s *service) ChangePin(ctx context.Context, userID uint, currentPin, newPin string) error {
	if len(newPin) < minPinLength {
		return ErrPinTooShort
	}
	u, err := s.get(ctx, userID)
	if err != nil {
		return err
	}
	if u.Pin == "" {
		return ErrPinNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Pin), []byte(currentPin)); err != nil {
		return ErrPinMismatch
	}
	return s.storePin(ctx, userID, newPin)
}

func (s *service) storePin(ctx context.Context, userID uint, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}
	if err := s.users.SetPin(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *service) get(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
