package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrew/ai-usage-monitor/internal/database"
	"github.com/andrew/ai-usage-monitor/internal/database/models"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User

	failWith  error // when set, every call fails
	createErr error // when set, CreateUser fails with it
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	if r.failWith != nil {
		return r.failWith
	}
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return database.ErrDuplicateEmail
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	c := *user
	r.byEmail[user.Email] = &c
	r.byID[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func newTestService(repo *fakeUserRepo) *Service {
	return NewService(repo, NewTokenManager([]byte("test-secret"), time.Hour))
}

func TestRegister_DistinctEmails(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	u1, tok1, err := svc.Register(ctx, "one@example.com", "password1", "")
	require.NoError(t, err)
	u2, tok2, err := svc.Register(ctx, "two@example.com", "password2", "")
	require.NoError(t, err)

	require.NotEqual(t, u1.ID, u2.ID)
	require.NotEqual(t, tok1, tok2)
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "dup@example.com", "password", "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "dup@example.com", "password", "")
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRegister_DuplicateRace(t *testing.T) {
	t.Parallel()

	// Simulates losing the check-then-insert race: the store's unique
	// constraint fires even though the lookup saw no existing user.
	repo := newFakeUserRepo()
	repo.createErr = database.ErrDuplicateEmail
	svc := newTestService(repo)

	_, _, err := svc.Register(context.Background(), "race@example.com", "password", "")
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "not-an-email", "password", "")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, _, err = svc.Register(ctx, "short@example.com", "12345", "")
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_NameDefaultsToLocalPart(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "carol@example.com", "password", "")
	require.NoError(t, err)
	require.Equal(t, "carol", u.Name)

	u, _, err = svc.Register(ctx, "dave@example.com", "password", "David")
	require.NoError(t, err)
	require.Equal(t, "David", u.Name)
}

func TestRegister_PasswordNeverReturned(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo)

	u, _, err := svc.Register(context.Background(), "eve@example.com", "password", "")
	require.NoError(t, err)
	require.Empty(t, u.PasswordHash)

	// The stored row has a hash, not the plaintext.
	stored := repo.byEmail["eve@example.com"]
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "password", stored.PasswordHash)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "nobody@example.com", "password")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, regToken, err := svc.Register(ctx, "alice@example.com", "alice123456", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrongpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	user, token, err := svc.Login(ctx, "alice@example.com", "alice123456")
	require.NoError(t, err)
	require.Equal(t, "Alice", user.Name)
	require.Empty(t, user.PasswordHash)
	require.NotEmpty(t, token)
	require.NotEqual(t, regToken, token)
}

func TestResolveIdentity(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "frank@example.com", "password", "")
	require.NoError(t, err)

	resolved, err := svc.ResolveIdentity(ctx, token)
	require.NoError(t, err)
	require.Equal(t, u.ID, resolved.ID)
	require.Empty(t, resolved.PasswordHash)

	// Bad token is an error.
	_, err = svc.ResolveIdentity(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	// Valid token for a deleted user is absence, not an error.
	delete(repo.byID, u.ID)
	resolved, err = svc.ResolveIdentity(ctx, token)
	require.NoError(t, err)
	require.Nil(t, resolved)
}

func TestStoreFailuresSurfaceAsErrStore(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	repo.failWith = errors.New("connection refused")
	svc := newTestService(repo)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "g@example.com", "password", "")
	require.ErrorIs(t, err, ErrStore)

	_, _, err = svc.Login(ctx, "g@example.com", "password")
	require.ErrorIs(t, err, ErrStore)
}
