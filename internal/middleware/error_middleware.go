package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/i18n"
	"qrlink-go/response"
)

// GlobalErrorMiddleware 将 c.Error 收集到的错误渲染成统一响应，消息按请求语言翻译
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		ctx := c.Request.Context()
		for _, err := range c.Errors {
			var appErr *apperrors.AppError
			if errors.As(err.Err, &appErr) {
				if appErr.Code >= http.StatusInternalServerError {
					zap.L().Error("Request failed",
						zap.String("path", c.Request.URL.Path),
						zap.Int("status", appErr.Code),
						zap.Error(appErr),
					)
				}
				c.AbortWithStatusJSON(appErr.Code, response.Error(i18n.T(ctx, appErr.Message, nil)))
				return
			}
		}

		zap.L().Error("Unhandled request error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(c.Errors.Last().Err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(i18n.T(ctx, "error.system", nil)))
	}
}
