package cmd

import (
	"log"

	"inventory-api/core/config"
	"inventory-api/core/database"
	"inventory-api/core/logger"
	"inventory-api/feature/assets/models"
	"inventory-api/feature/reports"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the database schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  `Creates or updates the asset, quarantine and report job tables.`,
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

		if err := db.AutoMigrate(
			&models.Asset{},
			&models.ConflictiveAsset{},
			&reports.Job{},
		); err != nil {
			return err
		}

		logg.Info("Schema migration completed", zap.String("database", cfg.Database.Name))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
