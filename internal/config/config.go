// Package config provides configuration management for the TrueSignal engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Feed      FeedConfig      `mapstructure:"feed" validate:"required"`
	SportsAPI SportsAPIConfig `mapstructure:"sports_api" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ServerConfig represents the public HTTP API configuration
type ServerConfig struct {
	Port               int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort         int      `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSecs   int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins     []string `mapstructure:"allowed_origins" validate:"required,min=1"`
}

// FeedConfig represents signal feed and stats refresh configuration
type FeedConfig struct {
	PollIntervalSeconds int     `mapstructure:"poll_interval_seconds" validate:"required,gte=5"`
	UnitsWindowSize     int     `mapstructure:"units_window_size" validate:"required,gt=0"`
	InitialUnitsBalance float64 `mapstructure:"initial_units_balance" validate:"gte=0"`
	// Display baselines shown only while no settled signal exists. Kept
	// apart from computed metrics so synthetic and real numbers never mix.
	FallbackAssertivity float64 `mapstructure:"fallback_assertivity" validate:"gte=0,lte=100"`
	FallbackROI         float64 `mapstructure:"fallback_roi"`
}

// SportsAPIConfig represents the external sports-data API configuration
type SportsAPIConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"required,url"`
	APIKey          string  `mapstructure:"api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
