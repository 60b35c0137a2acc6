package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/procurement-portal/internal"
)

// Open builds the slot store selected by cfg.Backend.
func Open(ctx context.Context, cfg internal.StorageConfig, logger *slog.Logger) (SlotStore, error) {
	logger.Debug("opening slot store", "backend", cfg.Backend)

	switch cfg.Backend {
	case internal.StorageBackendMemory:
		return NewMemoryStore(), nil
	case internal.StorageBackendFile:
		return NewOSFileStore(cfg.Dir)
	case internal.StorageBackendRedis:
		return NewRedisStore(cfg.RedisURL)
	case internal.StorageBackendGorm:
		db, err := OpenGorm(cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case internal.StorageBackendSQL:
		db, err := OpenSQL(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, db.DB, cfg.Database.Driver, false); err != nil {
			_ = db.Close()
			return nil, err
		}
		return NewSQLStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
