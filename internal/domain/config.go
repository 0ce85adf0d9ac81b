package domain

import (
	"time"
)

// Config is the application configuration: target database, reference
// panel API and logging.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	PanelApp PanelAppConfig `mapstructure:"panelapp"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds the target database connection settings. The
// user/pwd/endpoint spellings match the deployed credential files.
type DatabaseConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"pwd"`
	Endpoint string `mapstructure:"endpoint"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// PanelAppConfig configures the reference panel API client.
type PanelAppConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  int           `mapstructure:"rate_limit"`
	RetryCount int           `mapstructure:"retry_count"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
