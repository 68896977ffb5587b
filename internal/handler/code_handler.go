package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"qrlink-go/internal/dto"
	"qrlink-go/internal/service"
	"qrlink-go/response"
)

// CodeHandler /api/v1/codes
type CodeHandler struct {
	mappings *service.MappingService
}

func NewCodeHandler(mappings *service.MappingService) *CodeHandler {
	return &CodeHandler{mappings: mappings}
}

func (h *CodeHandler) Create(c *gin.Context) {
	org, ok := organizationOf(c)
	if !ok {
		return
	}
	var req dto.CreateCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.mappings.Create(c.Request.Context(), org, req.QRResourceID, req.DestinationURL)
	if err != nil {
		zap.L().Warn("Short code creation failed",
			zap.Error(err),
			zap.String("organization_id", org),
			zap.String("qr_resource_id", req.QRResourceID),
		)
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(m, message(c, "message.code_created")))
}

func (h *CodeHandler) Get(c *gin.Context) {
	org, ok := organizationOf(c)
	if !ok {
		return
	}
	m, err := h.mappings.Get(c.Request.Context(), org, c.Param("code"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(m, message(c, "message.success")))
}

func (h *CodeHandler) Update(c *gin.Context) {
	org, ok := organizationOf(c)
	if !ok {
		return
	}
	var req dto.UpdateCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.mappings.UpdateDestination(c.Request.Context(), org, c.Param("code"), req.DestinationURL)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(m, message(c, "message.code_updated")))
}

func (h *CodeHandler) UpdateStatus(c *gin.Context) {
	org, ok := organizationOf(c)
	if !ok {
		return
	}
	var req dto.UpdateCodeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.mappings.SetActive(c.Request.Context(), org, c.Param("code"), *req.Active)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(m, message(c, "message.code_updated")))
}

func (h *CodeHandler) Stats(c *gin.Context) {
	org, ok := organizationOf(c)
	if !ok {
		return
	}
	stats, err := h.mappings.Stats(c.Request.Context(), org, c.Param("code"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(stats, message(c, "message.success")))
}
