package types

// Metrics receives cache lifecycle events. The coarse Stats value exposed by
// the manager does not distinguish hits from misses, so a Metrics
// implementation is the way to get real hit/miss numbers.
//
// Implementations must be safe for concurrent use and must not block; these
// methods run on the hot read and write paths.
type Metrics interface {
	// Hit is called when a Get returns a value, from either tier.
	Hit()

	// Miss is called when a Get finds nothing valid in any tier.
	Miss()

	// Eviction is called when an entry is removed to satisfy a size bound.
	Eviction()

	// Expire is called when an expired entry is removed, lazily on read or
	// by the background sweep.
	Expire()

	// Promotion is called when a durable-tier entry is copied back into the
	// memory tier after a memory miss.
	Promotion()
}

// NoopMetrics is the default Metrics. It keeps the tiers free of nil checks
// when the caller does not care about instrumentation.
type NoopMetrics struct{}

func (NoopMetrics) Hit()       {}
func (NoopMetrics) Miss()      {}
func (NoopMetrics) Eviction()  {}
func (NoopMetrics) Expire()    {}
func (NoopMetrics) Promotion() {}
