package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/ratelimit"
	"github.com/Saaayurii/Chat-sub000/internal/shared/constants"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
	"github.com/Saaayurii/Chat-sub000/internal/shared/utils"
)

// RateLimitMiddleware throttles REST calls per operator, or per client IP
// before authentication.
type RateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
	policy  ratelimit.Policy
	logger  logger.Interface
}

func NewRateLimitMiddleware(limiter ratelimit.RateLimiter, policy ratelimit.Policy, logger logger.Interface) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, policy: policy, logger: logger}
}

func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if operatorID := c.GetString(constants.ContextKeyOperatorID); operatorID != "" {
			key = "operator:" + operatorID
		}

		allowed, err := m.limiter.Allow(c.Request.Context(), key, m.policy)
		if err != nil {
			// Redis unavailable: let traffic through
			m.logger.Warnw("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		if remaining, err := m.limiter.Remaining(c.Request.Context(), key, m.policy); err == nil && remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
