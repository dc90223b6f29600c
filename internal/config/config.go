package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendFile     Backend = "file"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Previsao"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"previsao"`
	}

	Store struct {
		Backend    Backend `envconfig:"STORE_BACKEND" default:"sqlite"`
		SQLitePath string  `envconfig:"STORE_SQLITE_PATH" default:"data/previsao.db"`
		FilePath   string  `envconfig:"STORE_FILE_PATH" default:"data/settings.json"`
	}

	Projection struct {
		// Used when the settings carry no salary payday.
		Payday      int           `envconfig:"PROJECTION_PAYDAY" default:"0"`
		SettleDelay time.Duration `envconfig:"PROJECTION_SETTLE_DELAY" default:"100ms"`
		StrictGoals bool          `envconfig:"PROJECTION_STRICT_GOALS" default:"false"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"previsao.events"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Backend {
	case BackendPostgres, BackendSQLite, BackendFile:
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Projection.Payday < 0 || cfg.Projection.Payday > 31 {
		return nil, fmt.Errorf("payday out of range: %d", cfg.Projection.Payday)
	}

	return &cfg, nil
}
