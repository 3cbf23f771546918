package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/healthpod/healthpod/internal/common"
)

type contextKey string

// userIDKey is the request-context key holding the authenticated user id.
const userIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user id set by Middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// Middleware verifies the Bearer access token and injects the user id into
// the request context. Expired tokens answer 401 with body "token expired"
// so clients can trigger a refresh.
func Middleware(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthHeaderName)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				http.Error(w, common.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			userID, err := GetUserIDFromToken(token, secretKey)
			if err != nil {
				if errors.Is(err, common.ErrTokenExpired) {
					http.Error(w, common.ErrTokenExpired.Error(), http.StatusUnauthorized)
					return
				}
				http.Error(w, common.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
