package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/smart-todo/internal/logger"
	"github.com/sbilibin2017/smart-todo/internal/models"
)

//go:generate mockgen -source=auth.go -destination=mock_auth_test.go -package=middlewares

// Tokener extracts the bearer token from a request.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// Authenticator resolves a token into an existing identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.UserDB, error)
}

type usernameKey struct{}

// AuthMiddleware rejects requests without a valid token for an existing user
// and stores the caller's username in the request context.
func AuthMiddleware(tokener Tokener, authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				writeUnauthorized(w)
				return
			}

			user, err := authenticator.Authenticate(ctx, tokenString)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUsername(ctx, user.Username)))
		})
	}
}

// WithUsername returns a copy of ctx carrying the authenticated username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey{}, username)
}

// GetUsernameFromContext returns the authenticated username, or "" when the request was not authenticated.
func GetUsernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey{}).(string)
	return username
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid or expired token"})
}
