package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeScanner runs the virus-scan workflow worker.
	ServiceModeScanner ServiceMode = "scanner"
	// ServiceModeDeletionSweeper runs the scheduled-deletion sweeper.
	ServiceModeDeletionSweeper ServiceMode = "deletion-sweeper"
	// ServiceModeDownloadGC runs the download tracker garbage collector.
	ServiceModeDownloadGC ServiceMode = "download-gc"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeScanner,
		ServiceModeDeletionSweeper,
		ServiceModeDownloadGC,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeScanner, ServiceModeDeletionSweeper, ServiceModeDownloadGC:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: scanner, deletion-sweeper, download-gc)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// ScanConfig contains virus-scan workflow configuration.
type ScanConfig struct {
	// ProviderBaseURL is the base URL of the external scan provider API.
	ProviderBaseURL string `env:"SCAN_PROVIDER_BASE_URL" envDefault:"https://www.virustotal.com/vtapi/v2"`

	// ProviderAPIKey authenticates calls to the scan provider.
	ProviderAPIKey string `env:"SCAN_PROVIDER_API_KEY"`

	// DispatchInterval is the minimum spacing between outbound provider
	// calls. The provider enforces a hard rate limit of four requests per
	// minute, so the default leaves headroom for nothing but this worker.
	DispatchInterval time.Duration `env:"SCAN_DISPATCH_INTERVAL" envDefault:"15s"`

	// PollDelay is the wait between a submission (or a "not ready" report)
	// and the next report poll.
	PollDelay time.Duration `env:"SCAN_POLL_DELAY" envDefault:"60s"`

	// PublicBaseURL is the URL prefix under which locally hosted files are
	// served. Records whose file URL does not start with this prefix are
	// treated as externally hosted and cannot be rescanned.
	PublicBaseURL string `env:"SCAN_PUBLIC_BASE_URL" envDefault:"https://www.raftmodding.com"`
}

// Sanitize applies guardrails to scan configuration values.
func (c *ScanConfig) Sanitize() {
	c.ProviderBaseURL = strings.TrimRight(strings.TrimSpace(c.ProviderBaseURL), "/")
	c.ProviderAPIKey = strings.TrimSpace(c.ProviderAPIKey)
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")

	if c.DispatchInterval < time.Second {
		c.DispatchInterval = time.Second
	}
	if c.PollDelay < 5*time.Second {
		c.PollDelay = 5 * time.Second
	}
}

// DeletionConfig contains scheduled-deletion configuration.
type DeletionConfig struct {
	// Interval is how long a deletion request stays pending before the
	// sweeper is allowed to tear the entity down.
	Interval time.Duration `env:"DELETION_INTERVAL" envDefault:"240h"` // 10 days

	// SweepInterval is the pause between deletion sweeps. The next sweep is
	// scheduled only after the current one finishes.
	SweepInterval time.Duration `env:"DELETION_SWEEP_INTERVAL" envDefault:"1h"`

	// BatchSize is the maximum number of due schedules processed per sweep.
	BatchSize int `env:"DELETION_BATCH_SIZE" envDefault:"100"`
}

// Sanitize applies guardrails to deletion configuration values.
func (c *DeletionConfig) Sanitize() {
	if c.Interval < time.Hour {
		c.Interval = time.Hour
	}
	if c.SweepInterval < time.Minute {
		c.SweepInterval = time.Minute
	}
	if c.BatchSize < 1 {
		c.BatchSize = 1
	}
	if c.BatchSize > 10000 {
		c.BatchSize = 10000
	}
}

// DownloadsConfig contains download tracker configuration.
type DownloadsConfig struct {
	// Backend selects the tracker store: "postgres" or "redis".
	Backend string `env:"DOWNLOADS_BACKEND" envDefault:"postgres"`

	// Window is how long a caller/path pair is considered a duplicate view.
	Window time.Duration `env:"DOWNLOADS_WINDOW" envDefault:"1h"`

	// GCInterval is the pause between expired-tracker sweeps (Postgres
	// backend only; the Redis backend expires keys natively).
	GCInterval time.Duration `env:"DOWNLOADS_GC_INTERVAL" envDefault:"1h"`

	// Salt is mixed into the one-way hash of caller addresses so raw
	// addresses are never persisted.
	Salt string `env:"DOWNLOADS_SALT" envDefault:""`
}

// DownloadsBackendRedis selects the Redis-backed tracker store.
const DownloadsBackendRedis = "redis"

// DownloadsBackendPostgres selects the Postgres-backed tracker store.
const DownloadsBackendPostgres = "postgres"

// Sanitize applies guardrails to download tracker configuration values.
func (c *DownloadsConfig) Sanitize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend != DownloadsBackendRedis {
		c.Backend = DownloadsBackendPostgres
	}
	if c.Window < time.Minute {
		c.Window = time.Minute
	}
	if c.GCInterval < time.Minute {
		c.GCInterval = time.Minute
	}
}
