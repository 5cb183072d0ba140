package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/flowerpower/internal/api"
	"github.com/timmy/flowerpower/internal/catalog"
	"github.com/timmy/flowerpower/internal/config"
	"github.com/timmy/flowerpower/internal/logger"
	"github.com/timmy/flowerpower/internal/repository"
	"github.com/timmy/flowerpower/internal/service"
	"github.com/timmy/flowerpower/internal/storage"
)

func main() {
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx := context.Background()

	src, err := catalogSource(cfg)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize catalog source")
	}
	loader := catalog.NewLoader(src)

	imageStore, err := storage.NewImageStorage(&cfg.Images, &cfg.Storage)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize image storage")
	}

	// A missing generator only disables narratives; lookups keep working.
	var narratives service.NarrativeGenerator
	narrativeService, err := service.NewNarrativeService(&service.NarrativeConfig{
		Provider:      cfg.Generator.Provider,
		Model:         cfg.Generator.Model,
		APIKey:        cfg.Generator.APIKey,
		BaseURL:       cfg.Generator.BaseURL,
		MaxTokens:     cfg.Generator.MaxTokens,
		MaxSentences:  cfg.Generator.MaxSentences,
		Temperature:   cfg.Generator.Temperature,
		Timeout:       cfg.Generator.Timeout,
		RatePerMinute: cfg.Generator.RatePerMinute,
	})
	if err != nil {
		appLogger.WithError(err).Warn("Narrative generation disabled")
	} else {
		narratives = narrativeService
		appLogger.WithFields(logger.Fields{
			logger.FieldProvider: narrativeService.Provider(),
			"model":              cfg.Generator.Model,
		}).Info("Narrative generation enabled")
	}

	lookupService := service.NewLookupService(
		loader,
		service.NewImageResolver(imageStore, cfg.Images.Extension),
		narratives,
	)

	// Load eagerly so a broken dataset shows up in the startup logs.
	if _, err := loader.Load(ctx); err != nil {
		appLogger.WithError(err).Warn("Serving without a catalog")
	}

	router := api.SetupRouter(lookupService, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Generation calls can take a while; give them time to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}

// catalogSource picks the catalog backend named in the config.
func catalogSource(cfg *config.Config) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case "", "csv":
		return catalog.FileSource{Path: cfg.Catalog.Path}, nil
	case "database":
		db, err := repository.InitDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		return catalog.DatabaseSource{Repo: repository.NewFlowerRepository(db)}, nil
	default:
		return nil, fmt.Errorf("unknown catalog source: %q", cfg.Catalog.Source)
	}
}
