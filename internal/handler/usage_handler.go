package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"qrlink-go/internal/dto"
	"qrlink-go/internal/service"
	"qrlink-go/response"
)

type UsageHandler struct {
	usage *service.UsageService
	now   func() time.Time
}

func NewUsageHandler(usage *service.UsageService) *UsageHandler {
	return &UsageHandler{usage: usage, now: time.Now}
}

// Get GET /api/v1/usage?month=YYYY-MM
func (h *UsageHandler) Get(c *gin.Context) {
	org, ok := organizationOf(c)
	if !ok {
		return
	}
	var q dto.UsageQuery
	if !bindQuery(c, &q) {
		return
	}

	rec, err := h.usage.Get(c.Request.Context(), org, q.MonthStart(h.now()))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(rec, message(c, "message.success")))
}
