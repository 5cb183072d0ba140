package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/flowerpower/internal/api/middleware"
	"github.com/timmy/flowerpower/internal/service"
)

// User-facing messages.
const (
	msgCatalogUnavailable = "dataset not loading."
	msgFlowerMissFmt      = "Sorry, we don't have information on the flower: %s"
	msgMeaningMissFmt     = "Sorry, no flower associated with the meaning: %s"
)

// FlowerHandler serves the JSON lookup endpoints.
type FlowerHandler struct {
	lookup *service.LookupService
}

// NewFlowerHandler creates a new flower handler.
// Parameters:
//   - lookup: lookup service instance.
// Returns:
//   - *FlowerHandler: initialized handler.
func NewFlowerHandler(lookup *service.LookupService) *FlowerHandler {
	return &FlowerHandler{
		lookup: lookup,
	}
}

// ListFlowers handles GET /api/v1/flowers.
func (h *FlowerHandler) ListFlowers(c *gin.Context) {
	if !h.catalogReady(c) {
		return
	}
	opts := h.lookup.Options(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"flowers": opts.Flowers,
		"total":   len(opts.Flowers),
	})
}

// GetFlower handles GET /api/v1/flowers/:name.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FlowerHandler) GetFlower(c *gin.Context) {
	if !h.catalogReady(c) {
		return
	}

	result := h.lookup.LookupFlower(c.Request.Context(), c.Param("name"))
	if !result.Found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": FlowerMissMessage(result.Query),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListMeanings handles GET /api/v1/meanings.
func (h *FlowerHandler) ListMeanings(c *gin.Context) {
	if !h.catalogReady(c) {
		return
	}
	opts := h.lookup.Options(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"meanings": opts.Meanings,
		"total":    len(opts.Meanings),
	})
}

// GetMeaning handles GET /api/v1/meanings/:meaning.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FlowerHandler) GetMeaning(c *gin.Context) {
	if !h.catalogReady(c) {
		return
	}

	result := h.lookup.LookupMeaning(c.Request.Context(), c.Param("meaning"))
	if !result.Found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": MeaningMissMessage(result.Query),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// catalogReady writes a 503 and returns false when the catalog failed to load.
func (h *FlowerHandler) catalogReady(c *gin.Context) bool {
	if err := h.lookup.CatalogStatus(c.Request.Context()); err != nil {
		middleware.GetLogger(c).WithError(err).Warnf("Catalog unavailable: path=%s", c.Request.URL.Path)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":  msgCatalogUnavailable,
			"reason": err.Error(),
		})
		return false
	}
	return true
}
