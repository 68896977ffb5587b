package middleware

import (
	"github.com/gin-gonic/gin"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

	"qrlink-go/internal/i18n"
)

// I18nMiddleware 根据 Accept-Language 选择语言
func I18nMiddleware(bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := bundle.Match(c.GetHeader("Accept-Language"))
		localizer := goi18n.NewLocalizer(bundle.Bundle, tag.String(), bundle.Default.String())
		c.Request = c.Request.WithContext(i18n.WithLocalizer(c.Request.Context(), localizer))
		c.Next()
	}
}
