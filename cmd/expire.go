package cmd

import (
	"context"
	"log"

	"inventory-api/core/config"
	"inventory-api/core/database"
	"inventory-api/core/logger"
	"inventory-api/core/storage"
	"inventory-api/feature/assets"
	"inventory-api/feature/reports"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// expireCmd removes report jobs past their retention window.
// Intended to run from cron; the server never expires jobs on its own.
var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Remove expired report jobs and their artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}

		assetsService := assets.NewService(db, logg, cfg.Sync)
		svc := reports.NewService(reports.NewJobStore(db), assetsService, store, cfg.Storage.Bucket, cfg.Reports, logg)

		removed, err := svc.Expire(context.Background())
		if err != nil {
			return err
		}

		logg.Info("Expiry completed", zap.Int("removed", removed))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(expireCmd)
}
