package localdir

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/timmy/flowerpower/internal/source"
)

// SourceID identifies images read from a local directory.
const SourceID = "localdir"

// Adapter implements the Source interface for a directory of flower images.
type Adapter struct {
	root   string
	items  []source.ImageItem // Cached items
	loaded bool
}

// NewAdapter creates an adapter over root.
func NewAdapter(root string) *Adapter {
	return &Adapter{
		root: root,
	}
}

// GetSourceID returns the unique identifier for this source
func (a *Adapter) GetSourceID() string {
	return SourceID + ":" + a.root
}

// FetchBatch fetches a batch of image items. The cursor is an index into the
// sorted item list.
func (a *Adapter) FetchBatch(ctx context.Context, cursor string, limit int) ([]source.ImageItem, string, error) {
	// Load all items on first call
	if !a.loaded {
		if err := a.loadItems(); err != nil {
			return nil, "", fmt.Errorf("failed to load items: %w", err)
		}
		a.loaded = true
	}

	startIndex := 0
	if cursor != "" {
		var err error
		startIndex, err = strconv.Atoi(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", err)
		}
	}

	if startIndex >= len(a.items) {
		return []source.ImageItem{}, "", nil
	}

	endIndex := startIndex + limit
	if limit <= 0 || endIndex > len(a.items) {
		endIndex = len(a.items)
	}

	nextCursor := ""
	if endIndex < len(a.items) {
		nextCursor = strconv.Itoa(endIndex)
	}

	return a.items[startIndex:endIndex], nextCursor, nil
}

// Count returns the number of images found under the root.
func (a *Adapter) Count() (int, error) {
	if !a.loaded {
		if err := a.loadItems(); err != nil {
			return 0, err
		}
		a.loaded = true
	}
	return len(a.items), nil
}

// loadItems walks the root and collects image files. Keys are the slash
// separated relative paths, lowercased to match the resolver's candidates.
func (a *Adapter) loadItems() error {
	if _, err := os.Stat(a.root); os.IsNotExist(err) {
		return fmt.Errorf("image directory does not exist: %s", a.root)
	}

	a.items = []source.ImageItem{}

	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != a.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		format := FormatFromExt(filepath.Ext(name))
		if format == "" {
			return nil // Skip non-image files
		}

		rel, err := filepath.Rel(a.root, path)
		if err != nil {
			return err
		}
		a.items = append(a.items, source.ImageItem{
			Key:       strings.ToLower(filepath.ToSlash(rel)),
			Format:    format,
			LocalPath: path,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk image directory: %w", err)
	}

	// Sort items by key for consistent ordering
	sort.Slice(a.items, func(i, j int) bool {
		return a.items[i].Key < a.items[j].Key
	})

	return nil
}

// FormatFromExt maps a file extension to an image format name, or "" when the
// extension is not an image type we ingest.
func FormatFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return ""
	}
}
