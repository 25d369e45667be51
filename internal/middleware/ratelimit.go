package middleware

import (
	"net/http"
	"time"

	"github.com/commercia/commercia-backend/internal/database"
	"github.com/commercia/commercia-backend/pkg/clientip"
)

const (
	// RateLimitWindow is the fixed window requests are counted in.
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the number of requests allowed per window.
	RateLimitMaxRequests = 100
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting.
	RateLimitKeyPrefix = "ratelimit:"
)

// RateLimitMiddleware counts requests per IP in Redis and rejects the
// excess with 429. The counter lives in Redis so the limit holds across
// instances. Redis being down fails open: rate limiting is protection,
// not a dependency.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := RateLimitKeyPrefix + clientip.RealClientIP(r)

		count, err := database.RedisClient.Incr(ctx, key).Result()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			database.RedisClient.Expire(ctx, key, RateLimitWindow)
		}

		if count > RateLimitMaxRequests {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many requests. Please try again later."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
