package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrlink-go/internal/dto"
	"qrlink-go/internal/service"
	"qrlink-go/response"
)

// DomainHandler /api/v1/domains
type DomainHandler struct {
	domains *service.DomainService
}

func NewDomainHandler(domains *service.DomainService) *DomainHandler {
	return &DomainHandler{domains: domains}
}

func (h *DomainHandler) Add(c *gin.Context) {
	org, ok := organizationOf(c)
	if !ok {
		return
	}
	var req dto.AddDomainRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.domains.Add(c.Request.Context(), org, req.Hostname)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(d, message(c, "message.domain_added")))
}

func (h *DomainHandler) List(c *gin.Context) {
	org, ok := organizationOf(c)
	if !ok {
		return
	}
	list, err := h.domains.List(c.Request.Context(), org)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.List(list), message(c, "message.success")))
}

func (h *DomainHandler) Remove(c *gin.Context) {
	org, ok := organizationOf(c)
	if !ok {
		return
	}
	if err := h.domains.Remove(c.Request.Context(), org, c.Param("hostname")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(struct{}{}, message(c, "message.domain_removed")))
}

// Verify DNS 服务不可达时返回 503，记录保持原状态
func (h *DomainHandler) Verify(c *gin.Context) {
	org, ok := organizationOf(c)
	if !ok {
		return
	}
	d, err := h.domains.Verify(c.Request.Context(), org, c.Param("hostname"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(d, message(c, "message.success")))
}
