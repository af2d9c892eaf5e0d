package middleware

import (
	"net"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"

	"github.com/edvin/sqlgate/internal/api/response"
)

// RateLimit enforces a fixed request-rate ceiling per client IP. Counters
// live in process memory, so a multi-instance deployment limits each
// instance separately.
func RateLimit(instance *limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				// RealIP already stripped the port.
				ip = r.RemoteAddr
			}

			lctx, err := instance.Get(r.Context(), ip)
			if err != nil {
				response.WriteError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				response.WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
