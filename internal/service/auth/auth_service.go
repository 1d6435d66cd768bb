package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/etnair/internal/auth"
	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/Domenick1991/etnair/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type AuthService struct {
	users   repository.UserRepository
	revoked repository.TokenRepository
	tokens  *auth.TokenManager
}

func NewAuthService(users repository.UserRepository, revoked repository.TokenRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, revoked: revoked, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Username == "" || input.Email == "" || len(input.Password) < 8 {
		return nil, domain.ErrValidation
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns a signed token. Wrong email and wrong password are not
// distinguished to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrForbidden
		}
		return "", nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, domain.ErrForbidden
	}

	token, _, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout blacklists the token until its natural expiry. An already expired
// token needs no entry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return domain.ErrForbidden
	}
	return s.revoked.Blacklist(ctx, token, claims.ExpiresAt.Time)
}

func (s *AuthService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	blacklisted, err := s.revoked.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, domain.ErrForbidden
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrForbidden
	}
	return claims, nil
}

var _ AuthUseCase = (*AuthService)(nil)
