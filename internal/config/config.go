package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	Port     string `env:"TASKMASTER_PORT" envDefault:"8080"`
	DBPath   string `env:"TASKMASTER_DB_PATH" envDefault:"taskmaster.db"`
	LogLevel string `env:"TASKMASTER_LOG_LEVEL" envDefault:"info"`
	BaseURL  string `env:"TASKMASTER_BASE_URL" envDefault:"http://localhost:8080"`

	GoogleClientID     string `env:"TASKMASTER_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"TASKMASTER_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"TASKMASTER_GOOGLE_REDIRECT_URL"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.GoogleRedirectURL == "" {
		cfg.GoogleRedirectURL = cfg.BaseURL + "/auth/google/taskmaster"
	}
	return cfg, nil
}

// OAuthConfigured reports whether both Google OAuth credentials are set.
func (c Config) OAuthConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// OAuthPartial reports whether exactly one of the two Google credentials is set,
// which is almost always a deployment mistake worth warning about.
func (c Config) OAuthPartial() bool {
	return (c.GoogleClientID != "") != (c.GoogleClientSecret != "")
}
