// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	HTTP     HTTPConfig
	Database DatabaseConfig
}

type HTTPConfig struct {
	Host             string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port             string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout  time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" env-default:"sqlite3"`

	// SQLite
	Path string `env:"DB_PATH" env-default:"taskflow.db"`

	// MySQL
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASS"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"3306"`
	Name     string `env:"DB_NAME" env-default:"taskflow"`

	// Zero closes every connection once its statement is done.
	MaxIdleConns int  `env:"DB_MAX_IDLE_CONNS" env-default:"0"`
	Seed         bool `env:"DB_SEED" env-default:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env: %q", c.Env)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for driver %s", DriverSQLite)
		}
	case DriverMySQL:
		if c.Database.User == "" || c.Database.Name == "" {
			return fmt.Errorf("DB_USER and DB_NAME are required for driver %s", DriverMySQL)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %q", c.Database.Driver)
	}

	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must not be negative")
	}
	return nil
}
