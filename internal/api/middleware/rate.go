package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/config"
)

// RateLimit bounds the status API as a whole. Clients are local tooling on
// a loopback address, so a single shared bucket is enough; per-IP buckets
// would all key to 127.0.0.1 anyway.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
