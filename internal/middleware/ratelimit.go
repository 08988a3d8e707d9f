package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/lifestory-backend/pkg/clientip"
)

const (
	// RateLimitWindow is 120 seconds
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the number of API requests one IP may make per window
	RateLimitMaxRequests = 120
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "lifestory:ratelimit:"
)

// RedisRateLimiter counts requests per IP in fixed Redis windows, so the limit
// holds across several server processes.
type RedisRateLimiter struct {
	client *redis.Client
	window time.Duration
	max    int64
}

// NewRedisRateLimiter returns a limiter using the default window. A nil client
// disables limiting.
func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, window: RateLimitWindow, max: RateLimitMaxRequests}
}

func (l *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil || l.client == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := RateLimitKeyPrefix + clientip.RealClientIP(r)

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			// Fail open when Redis is unavailable.
			log.Printf("[RateLimit] redis unavailable: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.client.Expire(ctx, key, l.window)
		}

		if count > l.max {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(fmt.Sprintf(`{"success":false,"message":"Rate limit exceeded. Please try again later.","retry_after":%d}`, int(l.window.Seconds()))))
			return
		}

		remaining := l.max - count
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(l.max, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(l.window).Unix(), 10))
		next.ServeHTTP(w, r)
	})
}
