package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

const (
	StorageBackendMemory = "memory"
	StorageBackendFile   = "file"
	StorageBackendSQL    = "sql"
	StorageBackendGorm   = "gorm"
	StorageBackendRedis  = "redis"
)

type StorageConfig struct {
	Backend        string         `mapstructure:"backend"`
	Dir            string         `mapstructure:"dir"`
	DocumentSlot   string         `mapstructure:"document_slot"`
	TokenSlot      string         `mapstructure:"token_slot"`
	UnverifiedSlot string         `mapstructure:"unverified_slot"`
	RedisURL       string         `mapstructure:"redis_url"`
	Database       DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig is what a fresh checkout runs with when no config.yml is present.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{Env: "development"},
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
			WriteTimeout:      15 * time.Second,
		},
		Storage: StorageConfig{
			Backend:        StorageBackendFile,
			Dir:            ".portal",
			DocumentSlot:   "ipt_demo_v1",
			TokenSlot:      "auth_token",
			UnverifiedSlot: "unverified_email",
			Database: DatabaseConfig{
				Driver:          "sqlite",
				Source:          "portal.db",
				MaxOpenConns:    1,
				MaxIdleConns:    1,
				ConnMaxLifetime: 30 * time.Minute,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// LoadConfigFromEnv builds a config from PORTAL_* variables on top of the defaults.
func LoadConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.Server.Port = getEnvAsInt("PORTAL_HTTP_PORT", cfg.Server.Port)
	cfg.Storage.Backend = getEnv("PORTAL_STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.Dir = getEnv("PORTAL_STORAGE_DIR", cfg.Storage.Dir)
	cfg.Storage.RedisURL = getEnv("PORTAL_REDIS_URL", cfg.Storage.RedisURL)
	cfg.Storage.Database.Driver = getEnv("PORTAL_DB_DRIVER", cfg.Storage.Database.Driver)
	cfg.Storage.Database.Source = getEnv("PORTAL_DB_SOURCE", cfg.Storage.Database.Source)
	cfg.Storage.Database.MaxOpenConns = getEnvAsInt("PORTAL_DB_MAX_OPEN_CONNS", cfg.Storage.Database.MaxOpenConns)
	cfg.Storage.Database.MaxIdleConns = getEnvAsInt("PORTAL_DB_MAX_IDLE_CONNS", cfg.Storage.Database.MaxIdleConns)
	cfg.Observability.Logging.Level = getEnv("PORTAL_LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("PORTAL_LOG_FORMAT", "json")
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	if c.DocumentSlot == "" || c.TokenSlot == "" || c.UnverifiedSlot == "" {
		return errors.New("slot names must not be empty")
	}
	if c.DocumentSlot == c.TokenSlot || c.DocumentSlot == c.UnverifiedSlot || c.TokenSlot == c.UnverifiedSlot {
		return errors.New("slot names must be distinct")
	}

	switch c.Backend {
	case StorageBackendMemory:
	case StorageBackendFile:
		if c.Dir == "" {
			return errors.New("dir is required for the file backend")
		}
	case StorageBackendRedis:
		if c.RedisURL == "" {
			return errors.New("redis_url is required for the redis backend")
		}
	case StorageBackendSQL, StorageBackendGorm:
		return c.Database.Validate()
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("database source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", c.Format)
	}
	return nil
}
