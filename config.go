package tokencache

import (
	"errors"
	"time"
)

// Config defines a public type used by tokencache APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Refresh RefreshConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig defines a public type used by tokencache APIs.
//
// RefreshConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshConfig struct {
	// Proactive enables the background scheduler and switches the fast-path
	// window from the fixed on-demand window to Window.
	Proactive bool
	// Window is the buffer before expiry in proactive mode. Defaults to 10
	// minutes.
	Window time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by tokencache APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by tokencache APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Refresh: RefreshConfig{
			Proactive: false,
			Window:    defaultRefreshWindow,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; the clone keeps the Builder contract
	// that later mutations of a caller-held Config cannot reach a built
	// Credential.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Refresh.Window <= 0 {
		return errors.New("refresh window must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("audit buffer size must not be negative")
	}
	return nil
}
