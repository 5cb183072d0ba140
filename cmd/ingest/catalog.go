package main

import (
	"github.com/spf13/cobra"
	"github.com/timmy/flowerpower/internal/logger"
	"github.com/timmy/flowerpower/internal/repository"
	"github.com/timmy/flowerpower/internal/service"
)

func newCatalogCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Import the flower CSV into the database",
		Long:  "Parse the language-of-flowers CSV and replace the catalog stored in the configured database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = cfg.Catalog.Path
			}

			db, err := repository.InitDB(&cfg.Database)
			if err != nil {
				return err
			}

			stats, err := service.ImportCatalog(cmd.Context(), file, repository.NewFlowerRepository(db))
			if err != nil {
				return err
			}

			appLogger.WithFields(logger.Fields{
				"file":    file,
				"rows":    stats.Rows,
				"skipped": stats.Skipped,
				"stored":  stats.Stored,
			}).Info("Catalog import completed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to import (default: catalog.path)")
	return cmd
}
