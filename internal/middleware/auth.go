package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mmynk/listling/internal/auth"
	"github.com/mmynk/listling/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// principalKey is the context key for the authenticated principal.
	principalKey contextKey = "principal"
	// requestIDKey is the context key for the request id.
	requestIDKey contextKey = "request_id"
)

// GetPrincipal extracts the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}

// RequireAuth returns a middleware that validates the bearer token and
// places the principal (id + role) in the request context. Requests
// without a valid token are rejected with 401.
func RequireAuth(tokens *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, auth.ErrMissingToken)
				return
			}

			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, claims.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
