// Package config loads the application configuration from an optional
// file plus INCA_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/eastgenomics/inca-import/internal/domain"
)

// Manager loads, validates and hands out the configuration.
type Manager struct {
	config *domain.Config
}

// NewManager reads and validates configuration. path may be empty, in
// which case the default search locations are tried and defaults plus
// environment variables apply; a non-empty path must exist.
func NewManager(path string) (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(path); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig(path string) error {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/inca-import/")
	}

	v.SetEnvPrefix("INCA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file found; defaults and environment variables apply.
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

func setDefaults(v *viper.Viper) {
	// Database defaults. The target database has always been ngtd.
	v.SetDefault("database.endpoint", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "ngtd")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.pwd", "")
	v.SetDefault("database.ssl_mode", "prefer")

	// Reference panel API defaults.
	v.SetDefault("panelapp.base_url", "https://panelapp.genomicsengland.co.uk/api/v1/")
	v.SetDefault("panelapp.timeout", "30s")
	v.SetDefault("panelapp.rate_limit", 1)
	v.SetDefault("panelapp.retry_count", 3)

	// Logging defaults.
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// GetConfig returns the complete configuration.
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetDatabaseConfig returns the database configuration.
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig {
	return &m.config.Database
}

// GetPanelAppConfig returns the reference panel API configuration.
func (m *Manager) GetPanelAppConfig() *domain.PanelAppConfig {
	return &m.config.PanelApp
}

// Validate checks the loaded configuration for usable values.
func (m *Manager) Validate() error {
	config := m.config

	if config.Database.Endpoint == "" {
		return fmt.Errorf("database endpoint is required")
	}
	if config.Database.Port <= 0 || config.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", config.Database.Port)
	}
	if config.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if config.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if config.PanelApp.BaseURL == "" {
		return fmt.Errorf("panelapp base URL is required")
	}

	if _, err := logrus.ParseLevel(config.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// GetDatabaseConnectionString returns a keyword/value connection string
// for the configured database.
func (m *Manager) GetDatabaseConnectionString() string {
	db := m.config.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Endpoint, db.Port, db.User, db.Password, db.Database, db.SSLMode)
}

// NewLogger builds the application logger from the logging configuration.
func (m *Manager) NewLogger() *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(m.config.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(m.config.Logging.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
