package middleware

import (
	"fmt"
	"log"
	"time"

	"mentormatch/pkg/apperror"
	"mentormatch/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit caps requests per client IP using a fixed redis window. With no
// redis configured the limiter is a no-op.
func RateLimit(rdb *redis.Client, action string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:ip:%s:%s", c.ClientIP(), action)

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis being down should not lock users out.
			log.Printf("rate limit check failed: %v", err)
			c.Next()
			return
		}

		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if count > int64(max) {
			response.Error(c, apperror.ErrRateLimitExceeded)
			c.Abort()
			return
		}

		c.Next()
	}
}
