package api

import (
	"net/http"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/ratelimit"
)

const (
	// signinRatePerSecond throttles credential exchanges per client IP.
	signinRatePerSecond = 1
	// signinBurst allows a short burst of sign-in attempts before throttling.
	signinBurst = 5
)

// rateLimitByIP creates a middleware that rate limits requests by
// client IP. Returns 429 Too Many Requests when the limit is exceeded.
func (s *Server) rateLimitByIP(limiter *ratelimit.KeyedRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			if !limiter.Allow(key) {
				s.logger.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusTooManyRequests, "Too many requests. Please try again later.", s.logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in the chain.
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return xff[:i]
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
