package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qrlink-go/internal/apperrors"
	"qrlink-go/pkg/utils"
)

const contextOrganizationScope = "qrlink.organization_scope"

// DomainResolver *service.DomainService 满足该接口
type DomainResolver interface {
	Lookup(ctx context.Context, hostname string) (string, error)
}

// CustomDomain 非主域名的请求按自定义域名解析出所属组织
//
// primaryHosts 为空时不启用。未知域名直接 404。
func CustomDomain(domains DomainResolver, primaryHosts []string) gin.HandlerFunc {
	primary := make(map[string]struct{}, len(primaryHosts))
	for _, h := range primaryHosts {
		primary[utils.NormalizeHostname(h)] = struct{}{}
	}

	return func(c *gin.Context) {
		if len(primary) == 0 {
			c.Next()
			return
		}
		host := utils.NormalizeHostname(c.Request.Host)
		if _, ok := primary[host]; ok || host == "" {
			c.Next()
			return
		}

		orgID, err := domains.Lookup(c.Request.Context(), host)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, apperrors.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.String(status, http.StatusText(status))
			c.Abort()
			return
		}
		c.Set(contextOrganizationScope, orgID)
		c.Next()
	}
}

// OrganizationScope 请求来自自定义域名时返回其组织
func OrganizationScope(c *gin.Context) string {
	return c.GetString(contextOrganizationScope)
}
