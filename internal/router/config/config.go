package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`
	Storage        string        `mapstructure:"STORAGE"`
	PostgresConn   string        `mapstructure:"POSTGRES_CONN"`
	MigrationURL   string        `mapstructure:"MIGRATION_URL"`
	AMQPURL        string        `mapstructure:"AMQP_URL"`
	EventsExchange string        `mapstructure:"EVENTS_EXCHANGE"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

var keys = []string{
	"SERVER_ADDRESS",
	"STORAGE",
	"POSTGRES_CONN",
	"MIGRATION_URL",
	"AMQP_URL",
	"EVENTS_EXCHANGE",
	"REQUEST_TIMEOUT",
}

// LoadConfig загружает конфигурацию из app.env в каталоге path.
// Переменные окружения и файл .env имеют приоритет над app.env.
func LoadConfig(path string) (cfg Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("STORAGE", StoragePostgres)
	v.SetDefault("MIGRATION_URL", "file://migrations")
	v.SetDefault("EVENTS_EXCHANGE", "tender_events")
	v.SetDefault("REQUEST_TIMEOUT", 5*time.Second)

	v.AutomaticEnv()
	for _, key := range keys {
		if err = v.BindEnv(key); err != nil {
			return cfg, err
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}
	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	cfg.Storage = strings.ToLower(cfg.Storage)
	return cfg, cfg.Validate()
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresConn == "" {
			return errors.New("POSTGRES_CONN is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}
