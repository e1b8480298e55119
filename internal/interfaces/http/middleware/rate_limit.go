// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
)

// RateLimit creates a Redis-backed fixed-window rate limiter keyed by client IP
func RateLimit(cfg *config.Config, redisClient *redis.Client) gin.HandlerFunc {
	limit := cfg.Security.RateLimitPerMinute
	window := time.Minute

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		current, err := redisClient.Get(ctx, key).Int()
		if err != nil && err != redis.Nil {
			// Fail open on Redis errors; throttling is best-effort
			c.Next()
			return
		}

		if current >= limit {
			ttl, _ := redisClient.TTL(ctx, key).Result()
			c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			c.Abort()
			return
		}

		pipe := redisClient.Pipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			c.Next()
			return
		}

		remaining := limit - int(incr.Val())
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}
