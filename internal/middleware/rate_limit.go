package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/store"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimiter throttles form submissions per client IP
type RateLimiter struct {
	visitors *store.TTLStore[*rate.Limiter]
	limit    rate.Limit
	burst    int
	logger   *logrus.Logger
}

// NewRateLimiter allows requestsPerMinute per IP with the given burst.
// Idle visitors are forgotten after ten minutes.
func NewRateLimiter(requestsPerMinute, burst int, logger *logrus.Logger) *RateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: store.NewTTLStore[*rate.Limiter]("rate-limit", 10*time.Minute, logger),
		limit:    rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		logger:   logger,
	}
}

// Start runs the visitor cleanup until ctx is cancelled
func (rl *RateLimiter) Start(ctx context.Context) {
	rl.visitors.Start(ctx)
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	if limiter, ok := rl.visitors.Get(ip); ok {
		return limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors.Put(ip, limiter)
	return limiter
}

// Limit creates a middleware that rejects requests over the limit
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := utils.ClientIP(c)
		if rl.getLimiter(ip).Allow() {
			c.Next()
			return
		}

		rl.logger.WithFields(logrus.Fields{
			"ip":   ip,
			"path": c.Request.URL.Path,
		}).Warn("Rate limit exceeded")

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests. Please try again later.",
				"code":    "RATE_LIMITED",
			})
			return
		}
		c.String(http.StatusTooManyRequests, "Te veel aanvragen. Probeer het over een minuut opnieuw.")
		c.Abort()
	}
}
