package service

import (
	"context"
	"time"

	"github.com/timmy/flowerpower/internal/catalog"
	"github.com/timmy/flowerpower/internal/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CatalogLoader returns the flower catalog; *catalog.Loader implements it.
type CatalogLoader interface {
	Load(ctx context.Context) (*catalog.Table, error)
}

// NarrativeGenerator produces the generated passage for a flower;
// *NarrativeService implements it.
type NarrativeGenerator interface {
	Generate(ctx context.Context, name, meaning string) (*Narrative, error)
}

// FlowerResult answers "what does this flower mean?".
type FlowerResult struct {
	Query          string     `json:"query"`
	Found          bool       `json:"found"`
	Name           string     `json:"name,omitempty"`
	Meaning        string     `json:"meaning,omitempty"`
	Image          *ImageRef  `json:"image,omitempty"`
	Narrative      *Narrative `json:"narrative,omitempty"`
	NarrativeError string     `json:"narrative_error,omitempty"`
}

// MeaningResult answers "which flower carries this meaning?".
type MeaningResult struct {
	Query   string    `json:"query"`
	Found   bool      `json:"found"`
	Meaning string    `json:"meaning,omitempty"`
	Flower  string    `json:"flower,omitempty"`
	Image   *ImageRef `json:"image,omitempty"`
}

// Options lists the values offered by the two selectors.
type Options struct {
	Flowers  []string `json:"flowers"`
	Meanings []string `json:"meanings"`
}

// LookupService runs the lookup flow: catalog, then image, then narrative.
type LookupService struct {
	catalog    CatalogLoader
	images     *ImageResolver
	narratives NarrativeGenerator
}

// NewLookupService creates a new lookup service.
// Parameters:
//   - catalog: memoized catalog loader.
//   - images: image resolver.
//   - narratives: text generator; nil disables narratives.
//
// Returns:
//   - *LookupService: initialized service.
func NewLookupService(catalog CatalogLoader, images *ImageResolver, narratives NarrativeGenerator) *LookupService {
	return &LookupService{
		catalog:    catalog,
		images:     images,
		narratives: narratives,
	}
}

// CatalogStatus returns why the catalog is unavailable, or nil when it loaded.
func (s *LookupService) CatalogStatus(ctx context.Context) error {
	_, err := s.catalog.Load(ctx)
	return err
}

// Options returns the sorted flower and meaning keys.
func (s *LookupService) Options(ctx context.Context) Options {
	table, _ := s.catalog.Load(ctx)
	return Options{
		Flowers:  table.Names(),
		Meanings: table.Meanings(),
	}
}

// LookupFlower resolves a flower name to its meaning, image and narrative.
// A name missing from the catalog is reported with Found=false, not an error.
// A failed narrative keeps the rest of the result and sets NarrativeError.
func (s *LookupService) LookupFlower(ctx context.Context, name string) *FlowerResult {
	key := catalog.NormalizeKey(name)
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent: "lookup",
		logger.FieldFlower:    key,
	})
	result := &FlowerResult{Query: key}

	table, _ := s.catalog.Load(ctx)
	meaning, ok := table.Meaning(key)
	if !ok {
		logger.CtxInfo(ctx, "Flower not in catalog")
		return result
	}

	result.Found = true
	result.Name = TitleCase(key)
	result.Meaning = meaning
	result.Image = s.images.Resolve(ctx, key)

	if s.narratives != nil {
		start := time.Now()
		narrative, err := s.narratives.Generate(ctx, key, meaning)
		if err != nil {
			logger.With(logger.Fields{
				logger.FieldDurationMs: time.Since(start).Milliseconds(),
			}).Error(ctx, "Narrative generation failed: %v", err)
			result.NarrativeError = err.Error()
		} else {
			result.Narrative = narrative
		}
	}

	return result
}

// LookupMeaning resolves a meaning to the flower recorded for it and its image.
func (s *LookupService) LookupMeaning(ctx context.Context, meaning string) *MeaningResult {
	key := catalog.NormalizeKey(meaning)
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent: "lookup",
		logger.FieldMeaning:   key,
	})
	result := &MeaningResult{Query: key}

	table, _ := s.catalog.Load(ctx)
	flower, ok := table.Flower(key)
	if !ok {
		logger.CtxInfo(ctx, "Meaning not in catalog")
		return result
	}

	result.Found = true
	result.Meaning = TitleCase(key)
	result.Flower = TitleCase(flower)
	result.Image = s.images.Resolve(ctx, flower)
	return result
}

// TitleCase capitalizes each word for display ("red rose" -> "Red Rose").
func TitleCase(s string) string {
	// A Caser keeps state, so one is made per call.
	return cases.Title(language.English).String(s)
}
