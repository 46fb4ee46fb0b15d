package user

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

func (r *fakeUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) SetPin(_ context.Context, id uint, pinHash string) error {
	if u, ok := r.users[id]; ok {
		u.Pin = pinHash
		return nil
	}
	return repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdatePassword(context.Context, uint, string) error { return nil }

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
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, repositories.Meta{Total: int64(len(users))}, nil
}

func (r *fakeUserRepo) CountAll(context.Context) (int64, error) { return 0, nil }

func (r *fakeUserRepo) CountByActive(context.Context, string) (int64, error) { return 0, nil }

func (r *fakeUserRepo) CountCreatedSince(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeUserRepo) CountByRole(context.Context) (map[models.UserRole]int64, error) {
	return nil, nil
}

func newTestService(t *testing.T) (Service, *models.User) {
	t.Helper()
	repo := &fakeUserRepo{users: map[uint]*models.User{}}
	u := &models.User{FirstName: "Ada", Email: "ada@example.com", Role: models.RoleUser, IsActive: models.UserActive}
	require.NoError(t, repo.Create(context.Background(), u))
	return NewService(repo), u
}

func TestSetPin(t *testing.T) {
	svc, u := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetPin(ctx, u.ID, "1234"), ErrPinTooShort)
	require.NoError(t, svc.SetPin(ctx, u.ID, "12345"))

	// stored hashed, and only settable once
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Pin), []byte("12345")))
	assert.ErrorIs(t, svc.SetPin(ctx, u.ID, "54321"), ErrPinAlreadySet)

	assert.ErrorIs(t, svc.SetPin(ctx, 999, "12345"), ErrUserNotFound)
}

func TestChangePin(t *testing.T) {
	svc, u := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ChangePin(ctx, u.ID, "12345", "54321"), ErrPinNotSet)
	require.NoError(t, svc.SetPin(ctx, u.ID, "12345"))

	assert.ErrorIs(t, svc.ChangePin(ctx, u.ID, "00000", "54321"), ErrPinMismatch)
	assert.ErrorIs(t, svc.ChangePin(ctx, u.ID, "12345", "321"), ErrPinTooShort)

	require.NoError(t, svc.ChangePin(ctx, u.ID, "12345", "54321"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Pin), []byte("54321")))
}

func TestSetActive(t *testing.T) {
	repo := &fakeUserRepo{users: map[uint]*models.User{}}
	svc := NewService(repo)
	ctx := context.Background()

	member := &models.User{Email: "member@example.com", Role: models.RoleUser, IsActive: models.UserActive}
	require.NoError(t, repo.Create(ctx, member))
	admin := &models.User{Email: "admin@example.com", Role: models.RoleSuperAdmin, IsActive: models.UserActive}
	require.NoError(t, repo.Create(ctx, admin))

	profile, err := svc.SetActive(ctx, member.ID, models.UserBlocked)
	require.NoError(t, err)
	assert.Equal(t, models.UserBlocked, profile.IsActive)
	assert.Equal(t, models.UserBlocked, member.IsActive)

	profile, err = svc.SetActive(ctx, member.ID, models.UserActive)
	require.NoError(t, err)
	assert.Equal(t, models.UserActive, profile.IsActive)

	_, err = svc.SetActive(ctx, member.ID, "DORMANT")
	assert.ErrorIs(t, err, ErrInvalidActiveState)

	_, err = svc.SetActive(ctx, admin.ID, models.UserBlocked)
	assert.ErrorIs(t, err, ErrCannotBlockAdmin)
	assert.Equal(t, models.UserActive, admin.IsActive)

	_, err = svc.SetActive(ctx, 999, models.UserBlocked)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestList(t *testing.T) {
	repo := &fakeUserRepo{users: map[uint]*models.User{}}
	svc := NewService(repo)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		require.NoError(t, repo.Create(ctx, &models.User{Email: email, Role: models.RoleUser}))
	}

	profiles, meta, err := svc.List(ctx, repositories.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
	assert.Equal(t, int64(2), meta.Total)
}

func TestMe(t *testing.T) {
	svc, u := newTestService(t)
	ctx := context.Background()

	profile, err := svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.False(t, profile.PinSet)

	require.NoError(t, svc.SetPin(ctx, u.ID, "12345"))
	profile, err = svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, profile.PinSet)

	_, err = svc.Me(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
