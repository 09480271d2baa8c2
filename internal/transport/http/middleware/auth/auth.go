// Package auth guards routes behind the external identity service. Every
// request carries a bearer token; verification yields the stable user id,
// and a local shadow profile is provisioned before the handler runs.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	authclient "github.com/idp-labs/shop-svc/internal/auth"
)

type ctxKey struct{}

// profileEnsurer provisions the local shadow record for an authenticated id.
type profileEnsurer interface {
	EnsureProfile(ctx context.Context, userID int64) error
}

// UserID returns the authenticated user id stored by the middleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)

	return id, ok
}

// WithUserID stores a user id in the context. Exported for handler tests.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// NewAuthMiddleware verifies the bearer token against the identity service
// and ensures a local profile exists for the authenticated user.
func NewAuthMiddleware(authenticator authclient.Authenticator, users profileEnsurer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				http.Error(w, "could not validate credentials", http.StatusUnauthorized)

				return
			}

			userID, err := authenticator.VerifyToken(r.Context(), token)
			if err != nil {
				http.Error(w, "could not validate credentials", http.StatusUnauthorized)

				return
			}

			if err := users.EnsureProfile(r.Context(), userID); err != nil {
				slog.Error("Failed to ensure user profile", "user_id", userID, "error", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
