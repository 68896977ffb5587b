package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/dto"
	"qrlink-go/internal/i18n"
	"qrlink-go/internal/middleware"
)

// bindJSON 绑定失败时写入 c.Error 并返回 false
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestError(dto.BindingMessage(req, err)))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		_ = c.Error(apperrors.InvalidRequestError(dto.BindingMessage(req, err)))
		return false
	}
	return true
}

// organizationOf 认证中间件之后调用
func organizationOf(c *gin.Context) (string, bool) {
	key := middleware.APIKeyFrom(c)
	if key == nil {
		_ = c.Error(apperrors.UnauthorizedError())
		return "", false
	}
	return key.OrganizationID, true
}

func message(c *gin.Context, id string) string {
	return i18n.T(c.Request.Context(), id, nil)
}
