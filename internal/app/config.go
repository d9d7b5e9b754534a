package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Бэкенды хранилища.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config описывает настройки запуска приложения, читаемые из окружения.
type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`

	// StorageBackend — "memory" или "postgres".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	PostgresDSN    string `env:"POSTGRES_DSN"`

	// KafkaBrokers — пустой список отключает публикацию событий.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	DispatchInterval time.Duration `env:"DISPATCH_INTERVAL" envDefault:"15s"`
	LoyaltyInterval  time.Duration `env:"LOYALTY_INTERVAL" envDefault:"30s"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// LoadConfig читает конфигурацию из переменных окружения.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	return nil
}
