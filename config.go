package preprocessor

import (
	"time"

	"github.com/phuslu/log"

	"github.com/arrowmetrics/preprocessor/metrics"
	"github.com/arrowmetrics/preprocessor/timekeeper"
)

// Config holds Manager configuration.
type Config struct {
	// WorkerCount is the fixed size of the worker pool. The number of
	// workers is configured at startup and fixed for the Manager's lifetime.
	// Default: 4
	WorkerCount uint

	// QueueWaitTimeout bounds how long an idle worker blocks in Wait before
	// re-checking for shutdown, so a stopping supervisor is observed
	// promptly instead of waiting out an unbounded block.
	// Default: 1s
	QueueWaitTimeout time.Duration

	// CacheCapacity is the LRU capacity of the Manager-owned value cache
	// returned by Manager.Cache(). Default: 4096
	CacheCapacity int

	// ErrorsBufferSize sizes the channel Manager.Errors() returns, carrying
	// fatal per-worker queue-wait failures (never step-execution errors).
	// Default: 64
	ErrorsBufferSize uint

	// Registry is the step evaluator registry tasks are executed against.
	// If nil, an empty Registry is created; the host process is expected to
	// populate it (directly or via Manager.Registry()) before enqueueing
	// tasks that reference step kinds.
	Registry *Registry

	// MetricsProvider receives counters/gauges/histograms for queue and
	// pool activity. Default: metrics.NewNoopProvider()
	MetricsProvider metrics.Provider

	// Timekeeper receives per-worker busy/idle transitions. Default:
	// timekeeper.NewNoopTimekeeper()
	Timekeeper timekeeper.Timekeeper

	// Logger receives structured diagnostics for queue wait failures and
	// step panics. Default: log.DefaultLogger
	Logger *log.Logger
}

// defaultConfig centralizes Config defaults; NewManager applies its Options
// on top of it.
func defaultConfig() Config {
	return Config{
		WorkerCount:      4,
		QueueWaitTimeout: time.Second,
		CacheCapacity:    4096,
		ErrorsBufferSize: 64,
		Registry:         NewRegistry(),
		MetricsProvider:  metrics.NewNoopProvider(),
		Timekeeper:       timekeeper.NewNoopTimekeeper(),
		Logger:           &log.DefaultLogger,
	}
}

// validateConfig performs the invariant checks a Manager cannot start
// without: a fixed, non-zero worker count chief among them.
func validateConfig(cfg *Config) error {
	if cfg.WorkerCount == 0 {
		return ErrInvalidConfig
	}
	if cfg.CacheCapacity <= 0 {
		return ErrInvalidConfig
	}
	return nil
}
