package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/etnair/internal/auth"
	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// memoryBlacklist is an in-process stand-in for the token_blacklist table.
type memoryBlacklist struct {
	revoked map[string]time.Time
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: map[string]time.Time{}}
}

func (b *memoryBlacklist) Blacklist(ctx context.Context, token string, expiresAt time.Time) error {
	b.revoked[token] = expiresAt
	return nil
}

func (b *memoryBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	_, ok := b.revoked[token]
	return ok, nil
}

func (b *memoryBlacklist) PurgeExpiredBefore(ctx context.Context, deadline time.Time) (int64, error) {
	var purged int64
	for token, expiresAt := range b.revoked {
		if expiresAt.Before(deadline) {
			delete(b.revoked, token)
			purged++
		}
	}
	return purged, nil
}

func newTestService(users *MockUserRepository, revoked *memoryBlacklist) *AuthService {
	return NewAuthService(users, revoked, auth.NewTokenManager("test-secret", time.Hour))
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(&MockUserRepository{}, newMemoryBlacklist())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "", Email: "a@b.c", Password: "longenough"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Username: "anna", Email: "", Password: "longenough"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Username: "anna", Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	users := &MockUserRepository{}
	svc := newTestService(users, newMemoryBlacklist())
	ctx := context.Background()

	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Register(ctx, RegisterInput{Username: "anna", Email: "  Anna@Example.COM ", Password: "longenough"})
	assert.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "longenough", user.PasswordHash)
}

func TestLogin_WrongCredentials(t *testing.T) {
	users := &MockUserRepository{}
	svc := newTestService(users, newMemoryBlacklist())
	ctx := context.Background()

	hash, err := auth.HashPassword("right password")
	assert.NoError(t, err)

	users.On("GetByEmail", ctx, "anna@example.com").Return(&domain.User{ID: 1, Email: "anna@example.com", PasswordHash: hash}, nil)
	users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.ErrNotFound)

	// Unknown email and wrong password look identical to the caller.
	_, _, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = svc.Login(ctx, "anna@example.com", "wrong password")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLoginLogoutVerify(t *testing.T) {
	users := &MockUserRepository{}
	revoked := newMemoryBlacklist()
	svc := newTestService(users, revoked)
	ctx := context.Background()

	hash, err := auth.HashPassword("right password")
	assert.NoError(t, err)
	users.On("GetByEmail", ctx, "anna@example.com").Return(&domain.User{ID: 1, Email: "anna@example.com", Role: domain.RoleUser, PasswordHash: hash}, nil)

	token, user, err := svc.Login(ctx, "Anna@Example.com", "right password")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	claims, err := svc.Verify(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)

	assert.NoError(t, svc.Logout(ctx, token))

	// A blacklisted token no longer verifies even though its signature holds.
	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestVerify_GarbageToken(t *testing.T) {
	svc := newTestService(&MockUserRepository{}, newMemoryBlacklist())

	_, err := svc.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogout_GarbageToken(t *testing.T) {
	svc := newTestService(&MockUserRepository{}, newMemoryBlacklist())

	err := svc.Logout(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestBlacklistPurge(t *testing.T) {
	revoked := newMemoryBlacklist()
	ctx := context.Background()

	assert.NoError(t, revoked.Blacklist(ctx, "stale", time.Now().Add(-time.Hour)))
	assert.NoError(t, revoked.Blacklist(ctx, "fresh", time.Now().Add(time.Hour)))

	purged, err := revoked.PurgeExpiredBefore(ctx, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	still, err := revoked.IsBlacklisted(ctx, "fresh")
	assert.NoError(t, err)
	assert.True(t, still)
}
