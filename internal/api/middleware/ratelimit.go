package middleware

import (
	"net/http"
	"strconv"
	"time"

	"suraksha-api/internal/config"
	"suraksha-api/internal/infrastructure/cache"
)

// RateLimiter returns middleware that implements per-client rate limiting
// backed by Redis. Counter errors fail open.
func RateLimiter(c *cache.RedisCache, cfg config.RateLimitConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, resetTime, err := c.CheckRateLimit(
				r.Context(),
				clientID(r),
				int64(cfg.RequestsPerMinute),
				time.Minute,
			)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(resetTime).Seconds()), 10))
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientID returns a unique identifier for the client
func clientID(r *http.Request) string {
	if token := GetAccessToken(r.Context()); token != "" {
		return "token:" + token
	}
	return "ip:" + r.RemoteAddr
}
