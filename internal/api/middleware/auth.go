package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/edvin/sqlgate/internal/api/response"
	"github.com/edvin/sqlgate/internal/core"
	"github.com/edvin/sqlgate/internal/model"
)

type contextKey string

const userKey contextKey = "api_user"

// Auth returns a middleware that validates the Authorization bearer token
// and stores the resolved user on the request context. Every token failure
// gets the same 401 message, so a caller cannot probe which check failed.
func Auth(auth *core.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.WriteError(w, http.StatusUnauthorized, core.ErrInvalidToken.Message)
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token == "" {
				response.WriteError(w, http.StatusUnauthorized, core.ErrInvalidToken.Message)
				return
			}

			user, err := auth.CurrentUser(r.Context(), token)
			if err != nil {
				if errors.Is(err, core.ErrInvalidToken) {
					response.WriteError(w, http.StatusUnauthorized, core.ErrInvalidToken.Message)
					return
				}
				response.WriteError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser extracts the authenticated user from the request context.
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}
