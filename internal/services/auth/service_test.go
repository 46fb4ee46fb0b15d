package auth

import (
	"context"
	"testing"
	"time"

	"digiwallet/internal/models"
	"digiwallet/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[uint]*models.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	u.ID = uint(len(r.users) + 1)
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) SetPin(context.Context, uint, string) error { return nil }

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uint, hash string) error {
	if u, ok := r.users[id]; ok {
		u.Password = hash
		return nil
	}
	return repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateRole(context.Context, uint, models.UserRole) error { return nil }

func (r *fakeUserRepo) SetActive(_ context.Context, id uint, state string) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = state
		return nil
	}
	return repositories.ErrUserNotFound
}

func (r *fakeUserRepo) MarkVerified(context.Context, uint) error { return nil }

func (r *fakeUserRepo) List(context.Context, repositories.ListQuery) ([]models.User, repositories.Meta, error) {
	return nil, repositories.Meta{}, nil
}

func (r *fakeUserRepo) CountAll(context.Context) (int64, error) { return 0, nil }

func (r *fakeUserRepo) CountByActive(context.Context, string) (int64, error) { return 0, nil }

func (r *fakeUserRepo) CountCreatedSince(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeUserRepo) CountByRole(context.Context) (map[models.UserRole]int64, error) {
	return nil, nil
}

const testPassword = "hunter2hunter2"

func newVerifiedUser(t *testing.T, repo *fakeUserRepo) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Email:      "ada@example.com",
		Password:   string(hash),
		Role:       models.RoleUser,
		IsActive:   models.UserActive,
		IsVerified: true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := &fakeUserRepo{users: map[uint]*models.User{}}
	svc := NewService(repo)
	u := newVerifiedUser(t, repo)
	ctx := context.Background()

	user, tokens, err := svc.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, _, err = svc.Login(ctx, u.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_BlockedAccount(t *testing.T) {
	repo := &fakeUserRepo{users: map[uint]*models.User{}}
	svc := NewService(repo)
	u := newVerifiedUser(t, repo)
	repo.users[u.ID].IsActive = models.UserBlocked

	_, _, err := svc.Login(context.Background(), u.Email, testPassword)
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestLogin_UnverifiedAccount(t *testing.T) {
	repo := &fakeUserRepo{users: map[uint]*models.User{}}
	svc := NewService(repo)
	u := newVerifiedUser(t, repo)
	repo.users[u.ID].IsVerified = false

	_, _, err := svc.Login(context.Background(), u.Email, testPassword)
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestChangePassword(t *testing.T) {
	repo := &fakeUserRepo{users: map[uint]*models.User{}}
	svc := NewService(repo)
	u := newVerifiedUser(t, repo)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, testPassword, "short"), ErrPasswordTooShort)
	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "wrong-password", "new-password-1"), ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, testPassword, "new-password-1"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[u.ID].Password), []byte("new-password-1")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{users: map[uint]*models.User{}}
	svc := NewService(repo)
	ctx := context.Background()

	req := RegisterRequest{FirstName: "Ada", Email: "ada@example.com", Password: testPassword}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}
