package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/cache"
	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/util"
	"go.uber.org/zap"
)

// WindowCounter counts requests in a fixed window. *cache.RedisClient implements it.
type WindowCounter interface {
	IncrWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error)
}

var _ WindowCounter = (*cache.RedisClient)(nil)

// RedisRateLimitMiddleware creates a fixed-window limiter shared across instances.
// A Redis error rejects the request with SERVICE_UNAVAILABLE rather than letting it through.
func RedisRateLimitMiddleware(counter WindowCounter, name string, config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientKey
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", name, config.KeyFunc(c))
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := counter.IncrWithExpiry(ctx, key, config.Window)
		if err != nil {
			logger.Log.Error("Rate limit check failed",
				zap.String("key", key),
				zap.Error(err),
			)
			util.RespondWithAPIError(c, errors.ServiceUnavailable("rate limiter"))
			return
		}

		remaining := int64(config.Limit) - count
		if remaining < 0 {
			logger.Log.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int("max_requests", config.Limit),
				zap.Int64("current_requests", count),
			)
			rejectRateLimited(c, config.Limit, int(config.Window.Seconds()))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Next()
	}
}

// RateLimit picks the Redis limiter when Redis is configured and the in-memory one otherwise
func RateLimit(name string, config RateLimitConfig) gin.HandlerFunc {
	if client := cache.GetRedisClient(); client != nil {
		return RedisRateLimitMiddleware(client, name, config)
	}
	return NewRateLimiter(config)
}
