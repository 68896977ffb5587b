package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/middleware"
	"qrlink-go/internal/service"
	"qrlink-go/pkg/netinfo"
)

const inactivePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>QR code inactive</title>
</head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding: 4rem 1rem;">
<h1>This QR code is no longer active</h1>
<p>The owner of this code has deactivated it. Please contact them for an updated link.</p>
</body>
</html>
`

// Resolver *service.RedirectService 满足该接口
type Resolver interface {
	Resolve(ctx context.Context, req service.ResolveRequest) (*service.Resolution, error)
}

type RedirectHandler struct {
	resolver  Resolver
	extractor netinfo.Extractor
}

func NewRedirectHandler(resolver Resolver, extractor netinfo.Extractor) *RedirectHandler {
	return &RedirectHandler{resolver: resolver, extractor: extractor}
}

// Redirect GET /r/:shortCode，错误以纯文本返回，停用的短码返回固定页面
func (h *RedirectHandler) Redirect(c *gin.Context) {
	res, err := h.resolver.Resolve(c.Request.Context(), service.ResolveRequest{
		Code:              c.Param("shortCode"),
		OrganizationScope: middleware.OrganizationScope(c),
		Client:            h.extractor.Extract(c.Request),
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.String(http.StatusNotFound, "Not Found")
		case errors.Is(err, apperrors.ErrInactive):
			c.Data(http.StatusGone, "text/html; charset=utf-8", []byte(inactivePage))
		case errors.Is(err, apperrors.ErrInvalidRedirect):
			c.String(http.StatusBadRequest, "Invalid redirect destination")
		default:
			c.String(http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Redirect(http.StatusFound, res.DestinationURL)
}
