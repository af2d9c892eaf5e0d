package middleware

import (
	"fmt"
	"net/http"

	"github.com/edvin/sqlgate/internal/api/response"
)

// RequireAdmin rejects requests whose authenticated user lacks the admin
// flag. It must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		if user == nil || !user.IsAdmin {
			isAdmin := user != nil && user.IsAdmin
			response.WriteError(w, http.StatusForbidden,
				fmt.Sprintf("Unauthorised access, admin access required. Current admin status is '%t'", isAdmin))
			return
		}
		next.ServeHTTP(w, r)
	})
}
