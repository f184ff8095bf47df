package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"roomtrack/api/internal/config"
)

// counterStore is the slice of the redis API the limiter touches.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RateLimit applies a fixed-window counter per client IP, backed by
// redis so the window is shared across server instances. Redis errors
// fail open: login availability beats strict limiting.
func RateLimit(cfg config.RateLimitConfig, client *redis.Client, log zerolog.Logger) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rateLimit(cfg, client, log)
}

func rateLimit(cfg config.RateLimitConfig, store counterStore, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:login:%s", c.ClientIP())
		ctx := c.Request.Context()

		count, err := store.Incr(ctx, key).Result()
		if err != nil {
			log.Warn().Err(err).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}
		if count == 1 {
			if err := store.Expire(ctx, key, cfg.LoginWindow).Err(); err != nil {
				// A counter with no TTL never resets, so drop it and
				// let this request through rather than risk a
				// permanent lockout for the client.
				log.Warn().Err(err).Msg("rate limit expire failed, dropping window")
				if err := store.Del(ctx, key).Err(); err != nil {
					log.Warn().Err(err).Msg("rate limit window cleanup failed")
				}
				c.Next()
				return
			}
		}

		if count > int64(cfg.LoginRequests) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
			return
		}

		c.Next()
	}
}
