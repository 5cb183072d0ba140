package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/timmy/flowerpower/internal/logger"
	"github.com/timmy/flowerpower/internal/service"
	"github.com/timmy/flowerpower/internal/source/localdir"
	"github.com/timmy/flowerpower/internal/storage"
)

func newImagesCmd() *cobra.Command {
	var (
		dir     string
		limit   int
		force   bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Upload flower images to the configured image store",
		Long: "Walk a local directory of flower images, check each one decodes, and upload it " +
			"with its content type to the image store (usually the s3 backend).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if dir == "" {
				dir = cfg.Images.Dir
			}

			if cfg.Images.Backend != storage.BackendS3 {
				same, err := sameDir(dir, cfg.Images.Dir)
				if err != nil {
					return err
				}
				if same {
					return fmt.Errorf("source %s is the local image directory; set images.backend=s3 or pass --dir", dir)
				}
			}

			store, err := storage.NewImageStorage(&cfg.Images, &cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to initialize image storage: %w", err)
			}
			if s3Store, ok := store.(*storage.S3Storage); ok {
				if err := s3Store.EnsureBucket(ctx); err != nil {
					return fmt.Errorf("failed to ensure storage bucket: %w", err)
				}
			}

			if workers <= 0 {
				workers = cfg.Ingest.Workers
			}
			svc := service.NewIngestService(store, &service.IngestConfig{
				Workers:   workers,
				BatchSize: cfg.Ingest.BatchSize,
			})

			stats, err := svc.IngestFromSource(ctx, localdir.NewAdapter(dir), limit, &service.IngestOptions{Force: force})
			if err != nil {
				return err
			}

			appLogger.WithFields(logger.Fields{
				"total":     stats.TotalItems,
				"processed": stats.ProcessedItems,
				"skipped":   stats.SkippedItems,
				"failed":    stats.FailedItems,
				"duration":  stats.EndTime.Sub(stats.StartTime).String(),
			}).Info("Image ingest completed")
			if stats.FailedItems > 0 {
				return fmt.Errorf("%d images failed", stats.FailedItems)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to read images from (default: images.dir)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of images to ingest (0 = all)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite images already in the store")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel uploads (default: ingest.workers)")
	return cmd
}

func sameDir(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
