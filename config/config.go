// Package config holds the application configuration, loaded from
// environment variables via github.com/caarlos0/env.
package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// See individual domain config files for the available environment
// variables:
//   - database.go: Postgres and Redis configuration
//   - services.go: service mode, scan, deletion and download configuration
//   - storage.go: file storage backend configuration
//   - observability.go: metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (text logging, .env loading).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// Services is a comma-delimited list of enabled services.
	// Valid values: scanner, deletion-sweeper, download-gc
	Services string `env:"SERVICES" envDefault:"scanner,deletion-sweeper,download-gc"`

	// Scan workflow configuration
	Scan ScanConfig

	// Deletion scheduler configuration
	Deletion DeletionConfig

	// Download tracker configuration
	Downloads DownloadsConfig

	// File storage configuration
	Storage StorageConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Scan.Sanitize()
	c.Deletion.Sanitize()
	c.Downloads.Sanitize()
	c.Storage.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback since the site's frontend tooling sets it.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsScannerEnabled returns true if the scan worker is enabled.
func (c *AppConfig) IsScannerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeScanner]
}

// IsDeletionSweeperEnabled returns true if the deletion sweeper is enabled.
func (c *AppConfig) IsDeletionSweeperEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeDeletionSweeper]
}

// IsDownloadGCEnabled returns true if the download tracker GC is enabled.
func (c *AppConfig) IsDownloadGCEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeDownloadGC]
}
