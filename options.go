package preprocessor

import (
	"time"

	"github.com/phuslu/log"

	"github.com/arrowmetrics/preprocessor/metrics"
	"github.com/arrowmetrics/preprocessor/timekeeper"
)

// Option configures a Manager. Use NewManager(ctx, opts...) to construct one.
type Option func(*Config)

// WithWorkerCount sets the fixed worker pool size (must be > 0).
func WithWorkerCount(n uint) Option {
	return func(c *Config) { c.WorkerCount = n }
}

// WithQueueWaitTimeout sets how long an idle worker blocks before
// re-checking for shutdown.
func WithQueueWaitTimeout(d time.Duration) Option {
	return func(c *Config) { c.QueueWaitTimeout = d }
}

// WithCacheCapacity sets the LRU capacity of the Manager-owned value cache.
func WithCacheCapacity(n int) Option {
	return func(c *Config) { c.CacheCapacity = n }
}

// WithErrorsBuffer sets the size of the fatal-errors channel buffer.
func WithErrorsBuffer(size uint) Option {
	return func(c *Config) { c.ErrorsBufferSize = size }
}

// WithRegistry installs a pre-populated step Registry.
func WithRegistry(r *Registry) Option {
	return func(c *Config) { c.Registry = r }
}

// WithMetricsProvider installs a metrics.Provider for queue/pool instrumentation.
func WithMetricsProvider(p metrics.Provider) Option {
	return func(c *Config) { c.MetricsProvider = p }
}

// WithTimekeeper installs a timekeeper.Timekeeper for busy/idle accounting.
func WithTimekeeper(tk timekeeper.Timekeeper) Option {
	return func(c *Config) { c.Timekeeper = tk }
}

// WithLogger installs a logger for fatal/diagnostic messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
