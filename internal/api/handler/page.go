package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/timmy/flowerpower/internal/api/middleware"
	"github.com/timmy/flowerpower/internal/service"
)

// PageTemplate is the name of the lookup page template.
const PageTemplate = "index.html"

// noSelection is the placeholder option of both selectors.
const noSelection = "None"

// PageData is what the lookup page template renders.
type PageData struct {
	Flowers         []string
	Meanings        []string
	SelectedFlower  string
	SelectedMeaning string

	Flower      *service.FlowerResult
	FlowerMiss  string
	Meaning     *service.MeaningResult
	MeaningMiss string

	CatalogError string
}

// PageHandler renders the interactive lookup page.
type PageHandler struct {
	lookup *service.LookupService
}

// NewPageHandler creates a new page handler.
func NewPageHandler(lookup *service.LookupService) *PageHandler {
	return &PageHandler{lookup: lookup}
}

// Index handles GET /. The flower and meaning query parameters hold the two
// selections; an empty value or "None" means nothing is selected.
func (h *PageHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.lookup.CatalogStatus(ctx); err != nil {
		middleware.GetLogger(c).WithError(err).Warn("Catalog unavailable, rendering page without selections")
		c.HTML(http.StatusOK, PageTemplate, PageData{CatalogError: msgCatalogUnavailable})
		return
	}

	opts := h.lookup.Options(ctx)
	data := PageData{
		Flowers:  opts.Flowers,
		Meanings: opts.Meanings,
	}

	if flower, ok := selection(c.Query("flower")); ok {
		result := h.lookup.LookupFlower(ctx, flower)
		data.SelectedFlower = result.Query
		if result.Found {
			data.Flower = result
		} else {
			data.FlowerMiss = FlowerMissMessage(result.Query)
		}
	}

	if meaning, ok := selection(c.Query("meaning")); ok {
		result := h.lookup.LookupMeaning(ctx, meaning)
		data.SelectedMeaning = result.Query
		if result.Found {
			data.Meaning = result
		} else {
			data.MeaningMiss = MeaningMissMessage(result.Query)
		}
	}

	c.HTML(http.StatusOK, PageTemplate, data)
}

// FlowerMissMessage is shown when a flower name is not in the catalog.
func FlowerMissMessage(name string) string {
	return fmt.Sprintf(msgFlowerMissFmt, service.TitleCase(name))
}

// MeaningMissMessage is shown when no flower carries a meaning.
func MeaningMissMessage(meaning string) string {
	return fmt.Sprintf(msgMeaningMissFmt, service.TitleCase(meaning))
}

func selection(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, noSelection) {
		return "", false
	}
	return v, true
}
