package tiercache

import (
	"time"

	"go.uber.org/zap"

	"tiercache/types"
)

// Defaults applied when neither constructor options nor per-write options
// say otherwise.
const (
	DefaultTTL           = 5 * time.Minute
	DefaultMaxSize       = 1000
	DefaultSweepInterval = time.Minute
)

// config holds manager-level settings, fixed at construction time.
// Per-write settings start from these and may be overridden per call.
type config struct {
	defaultTTL     time.Duration
	defaultMaxSize int
	sweepInterval  time.Duration
	durableTimeout time.Duration
	logger         *zap.Logger
	metrics        types.Metrics
}

func defaultConfig() config {
	return config{
		defaultTTL:     DefaultTTL,
		defaultMaxSize: DefaultMaxSize,
		sweepInterval:  DefaultSweepInterval,
		logger:         zap.NewNop(),
		metrics:        types.NoopMetrics{},
	}
}

// Option configures a Manager at construction time.
type Option func(*config)

// WithDefaultTTL sets the TTL applied to writes that carry no WithTTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *config) { c.defaultTTL = ttl }
}

// WithDefaultMaxSize sets the memory-tier bound applied to writes that carry
// no WithMaxSize. Promotions always use this bound.
func WithDefaultMaxSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.defaultMaxSize = n
		}
	}
}

// WithSweepInterval sets how often expired memory-tier entries are swept.
// A non-positive interval disables the background sweep; expired entries
// are then removed only lazily on read.
func WithSweepInterval(d time.Duration) Option {
	return func(c *config) { c.sweepInterval = d }
}

// WithDurableTimeout bounds each durable-store call. Timeouts degrade to a
// miss or a skipped best-effort write.
func WithDurableTimeout(d time.Duration) Option {
	return func(c *config) { c.durableTimeout = d }
}

// WithLogger routes cache logging through logger instead of discarding it.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics registers a receiver for cache lifecycle events.
func WithMetrics(m types.Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// writeConfig holds the per-write settings, seeded from the manager config.
type writeConfig struct {
	ttl        time.Duration
	maxSize    int
	persistent bool
}

// SetOption configures a single Set call.
type SetOption func(*writeConfig)

// WithTTL overrides the default TTL for this write. A TTL of zero or less
// produces an entry that is never readable; that is accepted behavior, not
// an error.
func WithTTL(ttl time.Duration) SetOption {
	return func(w *writeConfig) { w.ttl = ttl }
}

// WithMaxSize overrides the memory-tier bound for this write. Zero forces
// the tier to empty after the write.
func WithMaxSize(n int) SetOption {
	return func(w *writeConfig) {
		if n >= 0 {
			w.maxSize = n
		}
	}
}

// WithPersistence mirrors this write to the durable tier, best-effort.
func WithPersistence() SetOption {
	return func(w *writeConfig) { w.persistent = true }
}
