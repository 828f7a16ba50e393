package middlewares

import (
	"context"
	"time"

	"mangrove-be/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const reportLimitWindow = 24 * time.Hour

// Counter is the subset of the Redis client the limiter needs.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// ReportRateLimiter caps report submissions per client IP over a rolling
// 24h window. A limit of zero or less disables it. Redis failures let the
// request through.
func ReportRateLimiter(counter Counter, queuePrefix string, limit int, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		clientKey := queuePrefix + ":" + c.ClientIP()

		count, err := counter.Incr(ctx, clientKey).Result()
		if err != nil {
			logger.Warn("redis error incrementing report count", zap.String("key", clientKey), zap.Error(err))
			c.Next()
			return
		}

		// first submission in the window starts the TTL
		if count == 1 {
			if err := counter.Expire(ctx, clientKey, reportLimitWindow).Err(); err != nil {
				logger.Warn("redis error setting TTL", zap.String("key", clientKey), zap.Error(err))
			}
		}

		if count > int64(limit) {
			retryAfter, err := counter.TTL(ctx, clientKey).Result()
			// -1: the key has no expiry, start a fresh window
			if err == nil && retryAfter < 0 {
				if err := counter.Expire(ctx, clientKey, reportLimitWindow).Err(); err != nil {
					logger.Warn("redis error setting TTL", zap.String("key", clientKey), zap.Error(err))
				}
				retryAfter = reportLimitWindow
			}
			limited := apperrors.New(apperrors.CodeRateLimited, "rate limit exceeded", nil)
			c.AbortWithStatusJSON(apperrors.HTTPStatus(limited), gin.H{
				"success":     false,
				"error":       apperrors.PublicMessage(limited),
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}
