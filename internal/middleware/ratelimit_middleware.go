package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/service"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

// Limiter *service.RateLimitService 满足该接口
type Limiter interface {
	Check(ctx context.Context, keyID string, limitPerDay int64) service.RateLimitResult
}

// RateLimit 必须放在 APIKeyAuth 之后；不限量的 Key 不输出限流响应头
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := APIKeyFrom(c)
		if key == nil {
			c.Next()
			return
		}

		res := limiter.Check(c.Request.Context(), key.ID, key.DailyLimit)
		if !res.Unlimited() {
			c.Header(HeaderRateLimitLimit, strconv.FormatInt(res.Limit, 10))
			c.Header(HeaderRateLimitRemaining, strconv.FormatInt(res.Remaining, 10))
		}
		if !res.Allowed {
			_ = c.Error(apperrors.RateLimitedError())
			c.Abort()
			return
		}
		c.Next()
	}
}
