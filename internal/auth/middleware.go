package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/abbasrizvi-lab/todoapp/internal/db"
	apperrors "github.com/abbasrizvi-lab/todoapp/internal/errors"
)

type contextKey string

const userContextKey contextKey = "user"

// Middleware resolves the bearer token into a user and attaches it to the
// request context. The user lookup runs on every request; tokens stay valid
// for at most TokenTTL, but a user removed out-of-band must lose access
// immediately. Every failure mode produces the same 401 body.
func Middleware(authService *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, r)
				return
			}

			subject, err := authService.VerifyToken(token)
			if err != nil {
				unauthorized(w, r)
				return
			}

			user, err := authService.users.FindByEmail(r.Context(), subject)
			if err != nil {
				unauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteError(w, apperrors.GetRequestID(r.Context()), apperrors.Unauthorized())
}

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, user *db.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the authenticated user, or nil outside the
// middleware.
func GetUserFromContext(ctx context.Context) *db.User {
	user, ok := ctx.Value(userContextKey).(*db.User)
	if !ok {
		return nil
	}
	return user
}
