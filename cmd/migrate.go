package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded slot table migrations against the sql backend",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Storage.Backend != internal.StorageBackendSQL && cfg.Storage.Backend != internal.StorageBackendGorm {
		return fmt.Errorf("migrate needs the sql or gorm backend, got %q", cfg.Storage.Backend)
	}

	db, err := storage.OpenSQL(cfg.Storage.Database)
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db.DB, cfg.Storage.Database.Driver, migrateRollback); err != nil {
		return err
	}

	direction := "up"
	if migrateRollback {
		direction = "down"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrations %s on %s\n", direction, cfg.Storage.Database.Driver)
	return nil
}
