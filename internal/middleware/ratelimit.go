package middleware

import (
	"fmt"
	"time"

	"github.com/ecoexplorer/core/internal/pkg/redis"
	"github.com/ecoexplorer/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	rateLimitMax    = 50
	rateLimitWindow = time.Second
)

var rateLimitClock = time.Now

// RateLimit allows 50 requests per second per client IP. Admin requests
// and requests made while redis is unreachable pass through.
func RateLimit(client *redis.Client, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if client == nil || IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		key := fmt.Sprintf("eco:rate_limit:%s:%d", ip, rateLimitClock().Unix())
		count, err := client.IncrWindow(c.Request.Context(), key, rateLimitWindow+time.Second)
		if err != nil {
			log.Debug("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > rateLimitMax {
			log.Info("rate limited", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			c.Header("Retry-After", "1")
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
