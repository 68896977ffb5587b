package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/model"
)

const (
	HeaderAPIKey = "X-API-Key"

	contextAPIKey = "qrlink.api_key"
)

// Authenticator *service.APIKeyService 满足该接口
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.APIKey, error)
}

// APIKeyAuth 从 X-API-Key 或 Authorization: Bearer 中读取 Key
func APIKeyAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderAPIKey))
		if raw == "" {
			if scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
				raw = strings.TrimSpace(token)
			}
		}
		if raw == "" {
			_ = c.Error(apperrors.UnauthorizedError())
			c.Abort()
			return
		}

		key, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(contextAPIKey, key)
		c.Next()
	}
}

// APIKeyFrom 未经过认证时返回 nil
func APIKeyFrom(c *gin.Context) *model.APIKey {
	if v, ok := c.Get(contextAPIKey); ok {
		if key, ok := v.(*model.APIKey); ok {
			return key
		}
	}
	return nil
}
