package service

import (
	"context"
	"strings"

	"github.com/timmy/flowerpower/internal/logger"
	"github.com/timmy/flowerpower/internal/storage"
)

// ImageRef points at a resolved flower image.
type ImageRef struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ImageResolver finds the picture for a flower name in an image store.
type ImageResolver struct {
	store     storage.ObjectStorage
	extension string
}

// NewImageResolver creates a resolver probing store for files with the given
// extension (without the dot; defaults to "jpg").
func NewImageResolver(store storage.ObjectStorage, extension string) *ImageResolver {
	extension = strings.TrimPrefix(extension, ".")
	if extension == "" {
		extension = "jpg"
	}
	return &ImageResolver{store: store, extension: extension}
}

// Candidates lists the keys probed for name, in order: the full name
// ("red_rose"), the first and last tokens swapped ("rose_red"), then the last
// token alone ("rose"). A one-word name yields one key.
func (r *ImageResolver) Candidates(name string) []string {
	formatted := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	formatted = strings.Trim(formatted, "_")
	tokens := strings.FieldsFunc(formatted, func(c rune) bool { return c == '_' })
	if len(tokens) == 0 {
		return nil
	}

	stems := []string{formatted}
	if len(tokens) > 1 {
		first, last := tokens[0], tokens[len(tokens)-1]
		stems = append(stems, last+"_"+first, last)
	}
	keys := make([]string, 0, len(stems))
	seen := make(map[string]bool, len(stems))
	for _, stem := range stems {
		key := stem + "." + r.extension
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// Resolve returns the first candidate present in the store, or nil when none
// is. A miss is a normal outcome; probe errors count as "not present".
func (r *ImageResolver) Resolve(ctx context.Context, name string) *ImageRef {
	for _, key := range r.Candidates(name) {
		ok, err := r.store.Exists(ctx, key)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Warnf("Image probe failed: key=%s", key)
			continue
		}
		if ok {
			return &ImageRef{Key: key, URL: r.store.GetURL(key)}
		}
	}
	logger.CtxDebug(ctx, "No image for flower: name=%q", name)
	return nil
}
