package middleware

import (
	"net"
	"net/http"

	"coursehub-backend/pkg/auth"
	"coursehub-backend/pkg/common"
)

// RateLimitByIP throttles a route group per client IP. Used on the
// credential endpoints to slow brute-forcing.
func RateLimitByIP(limiter *auth.IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil || !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	// RealIP middleware rewrites RemoteAddr from X-Forwarded-For
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
