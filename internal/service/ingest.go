package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/timmy/flowerpower/internal/catalog"
	"github.com/timmy/flowerpower/internal/logger"
	"github.com/timmy/flowerpower/internal/source"
	"github.com/timmy/flowerpower/internal/storage"
	_ "golang.org/x/image/webp"
)

// IngestService copies flower images into the image store.
type IngestService struct {
	storage   storage.ObjectStorage
	workers   int
	batchSize int
}

// IngestConfig holds configuration for the ingest service
type IngestConfig struct {
	Workers   int
	BatchSize int
}

// NewIngestService creates a new ingest service
func NewIngestService(objectStorage storage.ObjectStorage, cfg *IngestConfig) *IngestService {
	workers, batchSize := cfg.Workers, cfg.BatchSize
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &IngestService{
		storage:   objectStorage,
		workers:   workers,
		batchSize: batchSize,
	}
}

// IngestStats holds statistics for an ingestion run
type IngestStats struct {
	TotalItems     int64
	ProcessedItems int64
	SkippedItems   int64
	FailedItems    int64
	StartTime      time.Time
	EndTime        time.Time
}

// IngestOptions holds options for ingestion
type IngestOptions struct {
	Force bool // Overwrite objects that already exist in the store
}

// IngestFromSource uploads up to limit images from src. Per-item failures are
// counted and logged; only a source failure aborts the run.
func (s *IngestService) IngestFromSource(ctx context.Context, src source.Source, limit int, opts *IngestOptions) (*IngestStats, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}
	ctx = logger.WithField(ctx, logger.FieldComponent, "ingest")

	stats := &IngestStats{
		StartTime: time.Now(),
	}

	logger.CtxInfo(ctx, "Starting image ingest: source=%s, limit=%d, force=%v", src.GetSourceID(), limit, opts.Force)

	itemsChan := make(chan source.ImageItem, s.workers*2)
	resultsChan := make(chan *processResult, s.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, itemsChan, resultsChan, opts)
		}()
	}

	done := make(chan struct{})
	go func() {
		for result := range resultsChan {
			atomic.AddInt64(&stats.ProcessedItems, 1)
			if result.skipped {
				atomic.AddInt64(&stats.SkippedItems, 1)
			} else if result.err != nil {
				atomic.AddInt64(&stats.FailedItems, 1)
				logger.FromContext(ctx).WithField("key", result.key).WithError(result.err).Error("Failed to ingest image")
			}
		}
		close(done)
	}()

	var fetchErr error
	cursor := ""
	totalFetched := 0
fetch:
	for ctx.Err() == nil {
		remaining := limit - totalFetched
		if limit > 0 && remaining <= 0 {
			break
		}

		batchLimit := s.batchSize
		if limit > 0 && batchLimit > remaining {
			batchLimit = remaining
		}

		items, nextCursor, err := src.FetchBatch(ctx, cursor, batchLimit)
		if err != nil {
			fetchErr = fmt.Errorf("failed to fetch batch: %w", err)
			break
		}
		if len(items) == 0 {
			break
		}

		atomic.AddInt64(&stats.TotalItems, int64(len(items)))
		totalFetched += len(items)

		for _, item := range items {
			select {
			case itemsChan <- item:
			case <-ctx.Done():
				break fetch
			}
		}

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	close(itemsChan)
	wg.Wait()
	close(resultsChan)
	<-done

	stats.EndTime = time.Now()

	logger.With(logger.Fields{
		logger.FieldCount:      stats.ProcessedItems,
		logger.FieldDurationMs: stats.EndTime.Sub(stats.StartTime).Milliseconds(),
	}).Info(ctx, "Image ingest completed: total=%d, skipped=%d, failed=%d",
		stats.TotalItems, stats.SkippedItems, stats.FailedItems)

	if fetchErr != nil {
		return stats, fetchErr
	}
	return stats, ctx.Err()
}

type processResult struct {
	key     string
	skipped bool
	err     error
}

func (s *IngestService) worker(ctx context.Context, items <-chan source.ImageItem, results chan<- *processResult, opts *IngestOptions) {
	for item := range items {
		if ctx.Err() != nil {
			return
		}
		skipped, err := s.processItem(ctx, &item, opts)
		results <- &processResult{key: item.Key, skipped: skipped, err: err}
	}
}

func (s *IngestService) processItem(ctx context.Context, item *source.ImageItem, opts *IngestOptions) (bool, error) {
	if !opts.Force {
		exists, err := s.storage.Exists(ctx, item.Key)
		if err != nil {
			return false, fmt.Errorf("failed to check storage existence: %w", err)
		}
		if exists {
			return true, nil
		}
	}

	data, err := os.ReadFile(item.LocalPath)
	if err != nil {
		return false, fmt.Errorf("failed to read image: %w", err)
	}

	width, height, err := getImageDimensions(data)
	if err != nil {
		return false, fmt.Errorf("not a readable %s image: %w", item.Format, err)
	}

	if err := s.storage.Upload(ctx, item.Key, bytes.NewReader(data), int64(len(data)), getContentType(item.Format)); err != nil {
		return false, fmt.Errorf("failed to upload to storage: %w", err)
	}

	logger.With(logger.Fields{
		logger.FieldSize: len(data),
	}).Debug(ctx, "Image uploaded: key=%s, width=%d, height=%d", item.Key, width, height)
	return false, nil
}

func getImageDimensions(data []byte) (int, int, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return config.Width, config.Height, nil
}

func getContentType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// CatalogWriter stores a parsed catalog; *repository.FlowerRepository implements it.
type CatalogWriter interface {
	ReplaceAll(ctx context.Context, entries []catalog.Entry) (int, error)
}

// CatalogImportStats summarizes a catalog import.
type CatalogImportStats struct {
	Rows    int // rows parsed from the file
	Skipped int // malformed rows dropped by the parser
	Stored  int // distinct flowers written
}

// ImportCatalog parses the CSV at path and replaces the stored catalog with it.
func ImportCatalog(ctx context.Context, path string, repo CatalogWriter) (*CatalogImportStats, error) {
	ctx = logger.WithField(ctx, logger.FieldComponent, "ingest")
	start := time.Now()

	ds, err := catalog.ReadFile(path)
	if err != nil {
		return nil, err
	}

	stored, err := repo.ReplaceAll(ctx, ds.Entries)
	if err != nil {
		return nil, fmt.Errorf("failed to store catalog: %w", err)
	}

	stats := &CatalogImportStats{Rows: len(ds.Entries), Skipped: ds.Skipped, Stored: stored}
	logger.With(logger.Fields{
		logger.FieldCount:      stored,
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Catalog imported: path=%s, rows=%d, skipped=%d", path, stats.Rows, stats.Skipped)
	return stats, nil
}
