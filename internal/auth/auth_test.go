package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/storage/sqlite"
)

func newAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(store, bcrypt.MinCost)
}

func TestPasswordAuthenticator(t *testing.T) {
	a := newAuthenticator(t)
	ctx := context.Background()

	reg := Registration{
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Example",
	}

	t.Run("Register hashes the credential", func(t *testing.T) {
		user, err := a.Register(ctx, reg, "correct-horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.PasswordHash == "correct-horse" || user.PasswordHash == "" {
			t.Error("Expected a bcrypt hash, not the raw credential")
		}
		if user.Role != models.RoleUser {
			t.Errorf("Role: got %s, want %s", user.Role, models.RoleUser)
		}
	})

	t.Run("Register rejects weak passwords", func(t *testing.T) {
		_, err := a.Register(ctx, Registration{Email: "weak@example.com"}, "short")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("Expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("Register rejects duplicate email", func(t *testing.T) {
		_, err := a.Register(ctx, reg, "another-pass")
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("Expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("Authenticate verifies the credential", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "alice@example.com", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("Email: got %s", user.Email)
		}

		if _, err := a.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
		// Unknown email must be indistinguishable from a bad password.
		if _, err := a.Authenticate(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)
	user := &models.User{ID: 42, Email: "alice@example.com", Role: models.RoleAdmin}

	t.Run("round trip preserves identity and role", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != 42 || claims.Email != "alice@example.com" || claims.Role != models.RoleAdmin {
			t.Errorf("Claims: got %+v", claims)
		}

		p := claims.Principal()
		if p.ID != 42 || !p.IsAdmin() {
			t.Errorf("Principal: got %+v", p)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		other := NewJWTManager("a-completely-different-secret!!!", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewJWTManager("test-secret-key-32-bytes-long!!!", -time.Minute)
		token, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})
}
