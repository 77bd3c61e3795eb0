package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves liveness information. The health endpoint stays
// 200 even when the spreadsheet backend never came up; the flag tells
// operators which of the two situations they are looking at.
type SystemHandler struct {
	sheetsReady bool
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(sheetsReady bool) *SystemHandler {
	return &SystemHandler{sheetsReady: sheetsReady}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/_health", h.Health)
}

// Health reports process liveness and backend readiness.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"sheets_initialized": h.sheetsReady,
	})
}
