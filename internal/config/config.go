package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAccessSecret  = "change-me-access-secret"
	defaultRefreshSecret = "change-me-refresh-secret"
)

// Config holds runtime settings read from the environment.
type Config struct {
	AppEnv         string   `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr       string   `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL    string   `env:"DATABASE_URL" envDefault:"tasks.db"`
	LogLevel       int      `env:"LOG_LEVEL" envDefault:"0"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	BcryptCost     int      `env:"BCRYPT_COST" envDefault:"12"`
	JWT            JWT      `envPrefix:"JWT_"`
}

// JWT holds the signing parameters for both token classes.
type JWT struct {
	AccessSecret  string        `env:"ACCESS_SECRET" envDefault:"change-me-access-secret"`
	RefreshSecret string        `env:"REFRESH_SECRET" envDefault:"change-me-refresh-secret"`
	AccessTTL     time.Duration `env:"ACCESS_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL" envDefault:"168h"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.JWT.AccessSecret = strings.TrimSpace(cfg.JWT.AccessSecret)
	cfg.JWT.RefreshSecret = strings.TrimSpace(cfg.JWT.RefreshSecret)

	origins := cfg.AllowedOrigins[:0]
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.AllowedOrigins = origins

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL must be > 0")
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return errors.New("JWT_REFRESH_TTL must be greater than JWT_ACCESS_TTL")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must not be empty")
	}

	if c.IsProdLike() {
		if c.JWT.AccessSecret == defaultAccessSecret {
			return errors.New("in prod/release JWT_ACCESS_SECRET must be set and not default")
		}
		if c.JWT.RefreshSecret == defaultRefreshSecret {
			return errors.New("in prod/release JWT_REFRESH_SECRET must be set and not default")
		}
		if c.JWT.AccessSecret == c.JWT.RefreshSecret {
			return errors.New("in prod/release JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
		}
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}
