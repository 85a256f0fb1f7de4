package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/listling/internal/auth"
	"github.com/mmynk/listling/internal/models"
)

// AuthService handles account registration and login on top of an
// Authenticator and a JWT manager.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, tokens *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		tokens:        tokens,
	}
}

// Register creates a new account and returns its public projection.
func (s *AuthService) Register(ctx context.Context, reg auth.Registration, password string) (*models.User, error) {
	user, err := s.authenticator.Register(ctx, reg, password)
	if err != nil {
		return nil, err
	}
	slog.Info("user registered", "user_id", user.ID)
	return user.Public(), nil
}

// Login verifies credentials and returns a signed token plus the
// user's public projection. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return token, user.Public(), nil
}
