package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/flowerpower/internal/service"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	lookup *service.LookupService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(lookup *service.LookupService) *HealthHandler {
	return &HealthHandler{lookup: lookup}
}

// Health returns the health status of the service. The process stays healthy
// when the catalog failed to load; the failure is reported, not fatal.
func (h *HealthHandler) Health(c *gin.Context) {
	catalogStatus := "loaded"
	if err := h.lookup.CatalogStatus(c.Request.Context()); err != nil {
		catalogStatus = "unavailable"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"catalog": catalogStatus,
	})
}
