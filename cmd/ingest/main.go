package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/timmy/flowerpower/internal/config"
	"github.com/timmy/flowerpower/internal/logger"
)

var (
	configPath string
	appLogger  *logger.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the flower catalog and images into their stores",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		var err error
		cfg, err = config.Load(path)
		return err
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: $CONFIG_PATH or ./configs/config.yaml)")
	rootCmd.AddCommand(newCatalogCmd(), newImagesCmd())
}

func main() {
	appLogger = logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "flowerpower-ingest",
	})
	logger.SetDefaultLogger(appLogger)

	// Cancel the run on interrupt; workers stop after their current item.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		appLogger.WithError(err).Error("Ingest failed")
		os.Exit(1)
	}
}
