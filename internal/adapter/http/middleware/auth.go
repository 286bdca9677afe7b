package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/gowallet/internal/infrastructure/auth"
)

// ContextKey is the type for context keys.
type ContextKey string

// IdentityContextKey is the context key for the authenticated identity.
const IdentityContextKey ContextKey = "identity"

// Identity is the authenticated caller extracted from the bearer token. The
// transfer core trusts this for the sender and never reads it from request
// payloads.
type Identity struct {
	UserID string
	Email  string
}

// Auth creates an authentication middleware that requires a valid bearer
// token.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			identity := &Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
			}

			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	return identity, ok
}
