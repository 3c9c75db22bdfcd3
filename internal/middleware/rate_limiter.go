package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per client IP, method and route in fixed
// windows. Redis failures let the request through.
func RateLimiter(client *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "rl:" + c.ClientIP() + ":" + c.Request.Method + ":" + c.FullPath()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Println("[RATE] [WARN] limiter unavailable:", err)
			c.Next()
			return
		}
		// A key without a TTL never resets. Any request that finds one sets
		// it, so a failed EXPIRE on the first hit heals on the next.
		resetIn, err := client.PTTL(ctx, key).Result()
		if err != nil {
			resetIn = window
		} else if resetIn < 0 {
			if err := client.Expire(ctx, key, window).Err(); err != nil {
				log.Println("[RATE] [WARN] window expiry not set:", err)
			}
			resetIn = window
		}

		remaining := int64(maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(resetIn.Round(time.Second).Seconds())))

		if count > int64(maxRequests) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
