package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/procurement-portal/internal"
	storageDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/storage"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormStore keeps slots as rows of the storage_slots table through gorm.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm opens the configured database and migrates the slot table.
func OpenGorm(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return OpenGormWith(postgres.Open(cfg.Source), cfg)
	default:
		return OpenGormWith(sqlite.Open(cfg.Source), cfg)
	}
}

// OpenGormWith opens dialector and migrates the slot table. The pool is closed again when
// the migration fails.
func OpenGormWith(dialector gorm.Dialector, cfg internal.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if err := db.AutoMigrate(&storageDatamodel.Slot{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate slot table: %w", err)
	}
	return db, nil
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	var rec storageDatamodel.Slot
	err := g.db.WithContext(ctx).Where("slot_key = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find slot %s: %w", key, err)
	}
	return rec.Value, true, nil
}

func (g *GormStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	rec := storageDatamodel.Slot{Key: key, Value: value}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"slot_value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save slot %s: %w", key, err)
	}
	return nil
}

func (g *GormStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := g.db.WithContext(ctx).Where("slot_key = ?", key).Delete(&storageDatamodel.Slot{}).Error; err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
