package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"qrlink-go/internal/handler"
	"qrlink-go/internal/i18n"
	"qrlink-go/internal/middleware"
	"qrlink-go/internal/service"
	"qrlink-go/pkg/netinfo"
)

// Deps 路由需要的全部服务
type Deps struct {
	Logger       *zap.Logger
	Bundle       *i18n.Bundle
	Redirects    *service.RedirectService
	Mappings     *service.MappingService
	Domains      *service.DomainService
	Usage        *service.UsageService
	RateLimits   *service.RateLimitService
	APIKeys      *service.APIKeyService
	Health       *handler.HealthHandler
	Extractor    netinfo.Extractor
	PrimaryHosts []string
}

// New 创建 gin 引擎并注册全部路由
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ZapGinLogger(d.Logger))
	r.Use(middleware.CorsMiddleware())

	// 健康检查不经过自定义域名路由
	r.GET("/healthz", d.Health.Health)

	setupRedirectRoutes(r, d)
	setupAPIRoutes(r, d)
	return r
}

// setupRedirectRoutes 扫码跳转，保持最短路径，只挂自定义域名中间件
func setupRedirectRoutes(r *gin.Engine, d Deps) {
	redirects := handler.NewRedirectHandler(d.Redirects, d.Extractor)

	g := r.Group("/r")
	g.Use(middleware.CustomDomain(d.Domains, d.PrimaryHosts))
	g.GET("/:shortCode", redirects.Redirect)
}

// setupAPIRoutes API Key 认证并限流的管理接口
func setupAPIRoutes(r *gin.Engine, d Deps) {
	codes := handler.NewCodeHandler(d.Mappings)
	domains := handler.NewDomainHandler(d.Domains)
	usage := handler.NewUsageHandler(d.Usage)

	api := r.Group("/api/v1")
	api.Use(middleware.GlobalErrorMiddleware())
	api.Use(middleware.I18nMiddleware(d.Bundle))
	api.Use(middleware.APIKeyAuth(d.APIKeys))
	api.Use(middleware.RateLimit(d.RateLimits))

	c := api.Group("/codes")
	{
		c.POST("", codes.Create)
		c.GET("/:code", codes.Get)
		c.PUT("/:code", codes.Update)
		c.PUT("/:code/status", codes.UpdateStatus)
		c.GET("/:code/stats", codes.Stats)
	}

	dm := api.Group("/domains")
	{
		dm.POST("", domains.Add)
		dm.GET("", domains.List)
		dm.DELETE("/:hostname", domains.Remove)
		dm.POST("/:hostname/verify", domains.Verify)
	}

	api.GET("/usage", usage.Get)
}
