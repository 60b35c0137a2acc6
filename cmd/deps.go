package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/app"
	"github.com/frahmantamala/procurement-portal/internal/storage"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
)

type Dependencies struct {
	Config *internal.Config
	Portal *app.Portal
	Logger *slog.Logger
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Configure(os.Stderr, config.Observability.Logging.Level, config.Observability.Logging.Format)

	slots, err := storage.Open(ctx, config.Storage, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	portal, err := app.New(ctx, config, slots, lg)
	if err != nil {
		_ = slots.Close()
		return nil, fmt.Errorf("failed to start portal: %w", err)
	}

	return &Dependencies{
		Config: config,
		Portal: portal,
		Logger: lg,
	}, nil
}

func (d *Dependencies) Close() {
	if err := d.Portal.Close(); err != nil {
		d.Logger.Error("storage close error", "error", err)
	}
}
