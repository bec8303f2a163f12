package tokencache

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/tokencache/internal/flight"
	"github.com/MrEthical07/tokencache/internal/proactive"
	"github.com/MrEthical07/tokencache/jwt"
)

// Builder defines a public type used by tokencache APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config       Config
	initialToken string

	refresher Refresher
	decoder   Decoder
	auditSink AuditSink
	now       func() time.Time

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(initialToken string) *Builder {
	return &Builder{
		config:       defaultConfig(),
		initialToken: initialToken,
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRefresher describes the withrefresher operation and its observable behavior.
//
// WithRefresher may return an error when input validation, dependency calls, or security checks fail.
// WithRefresher does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRefresher(r Refresher) *Builder {
	b.refresher = r
	return b
}

// WithDecoder describes the withdecoder operation and its observable behavior.
//
// WithDecoder may return an error when input validation, dependency calls, or security checks fail.
// WithDecoder does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithDecoder(d Decoder) *Builder {
	b.decoder = d
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

// WithProactiveRefresh describes the withproactiverefresh operation and its observable behavior.
//
// WithProactiveRefresh may return an error when input validation, dependency calls, or security checks fail.
// WithProactiveRefresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithProactiveRefresh(enabled bool) *Builder {
	b.config.Refresh.Proactive = enabled
	return b
}

// WithRefreshWindow describes the withrefreshwindow operation and its observable behavior.
//
// WithRefreshWindow may return an error when input validation, dependency calls, or security checks fail.
// WithRefreshWindow does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRefreshWindow(window time.Duration) *Builder {
	b.config.Refresh.Window = window
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithClock overrides the time source used for expiry decisions. Intended for
// tests; production callers keep the default time.Now.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Credential, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	decoder := b.decoder
	if decoder == nil {
		decoder = jwt.ExpiryOf
	}

	expiresOn, err := decoder(b.initialToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	window := onDemandWindow
	if cfg.Refresh.Proactive {
		window = cfg.Refresh.Window
	}

	c := &Credential{
		config:    cfg,
		window:    window,
		refresher: b.refresher,
		metrics:   NewMetrics(cfg.Metrics),
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		now:       now,
	}

	initial := Record{Value: b.initialToken, ExpiresOn: expiresOn}
	c.coord = flight.NewCoordinator(initial, c.stale, c.runRefresh)

	if cfg.Refresh.Proactive && b.refresher != nil {
		c.scheduler = proactive.New(c.nextDelay, c.proactiveFire)
		c.scheduler.Start()
	}

	b.built = true

	return c, nil
}
