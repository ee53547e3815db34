package preprocessor

import (
	"context"
	"sync"

	"github.com/phuslu/log"

	"github.com/arrowmetrics/preprocessor/cache"
	"github.com/arrowmetrics/preprocessor/metrics"
	"github.com/arrowmetrics/preprocessor/timekeeper"
)

// Manager is the integration surface exposed to the external supervisor: it
// owns the Queue, the fixed worker pool, the step Executor, and the
// Manager-scoped value cache, and coordinates their shutdown through one
// Shutdown call.
type Manager struct {
	queue    *Queue
	pool     *workerPool
	executor *Executor
	cache    *cache.ValueCache[Value]
	registry *Registry

	metrics    metrics.Provider
	timekeeper timekeeper.Timekeeper
	logger     *log.Logger

	workerErrs  chan error // internal: every worker's forwardFatal lands here
	publicErrs  chan error // external: Manager.Errors()
	forwarder   *errorForwarder
	forwarderWG sync.WaitGroup
	closeCh     chan struct{}

	lifecycle *lifecycleCoordinator
}

// NewManager builds a Manager and starts its worker pool immediately: there
// is no separate Start step.
func NewManager(ctx context.Context, opts ...Option) (*Manager, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry()
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	vc, err := cache.New[Value](cfg.CacheCapacity)
	if err != nil {
		return nil, err
	}

	q := NewQueue(cfg.MetricsProvider)
	x := NewExecutor(cfg.Registry, cfg.WorkerCount, cfg.MetricsProvider)

	workerErrs := make(chan error, cfg.WorkerCount)
	publicErrs := make(chan error, cfg.ErrorsBufferSize)
	closeCh := make(chan struct{})

	m := &Manager{
		queue:      q,
		executor:   x,
		cache:      vc,
		registry:   cfg.Registry,
		metrics:    cfg.MetricsProvider,
		timekeeper: cfg.Timekeeper,
		logger:     cfg.Logger,
		workerErrs: workerErrs,
		publicErrs: publicErrs,
		closeCh:    closeCh,
	}

	m.forwarder = newErrorForwarder(workerErrs, publicErrs, closeCh, &m.forwarderWG)
	m.forwarderWG.Add(1)
	go m.forwarder.run()

	m.pool = startWorkerPool(cfg.WorkerCount, q, x, cfg.Timekeeper, cfg.Logger, cfg.QueueWaitTimeout, workerErrs)

	m.lifecycle = newLifecycleCoordinator(m.pool.shutdown, func() {
		close(closeCh)
		m.forwarderWG.Wait()
		close(publicErrs)
	})

	_ = ctx // accepted for symmetry with future context-scoped setup; no blocking work occurs here
	return m, nil
}

// Enqueue hands a task to the queue. See Queue.Enqueue for per-kind routing.
func (m *Manager) Enqueue(t *Task) error {
	return m.queue.Enqueue(t)
}

// FetchFinished drains and returns every task that has finished since the
// last call, in no particular cross-item order (use RunBatch when
// submission order matters).
func (m *Manager) FetchFinished() []*Task {
	return m.queue.FetchFinished()
}

// PendingDepth is a best-effort snapshot of queued-but-not-started work.
func (m *Manager) PendingDepth() int {
	return m.queue.PendingDepth()
}

// InProgressCount is a best-effort snapshot of currently executing tasks.
func (m *Manager) InProgressCount() int {
	return m.queue.InProgressCount()
}

// Cache returns the Manager-owned value cache backing DEPENDENT fanout.
func (m *Manager) Cache() *cache.ValueCache[Value] {
	return m.cache
}

// Registry returns the step evaluator registry tasks execute against.
// Register step kinds on it before enqueueing tasks that reference them.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Metrics returns the configured metrics.Provider.
func (m *Manager) Metrics() metrics.Provider {
	return m.metrics
}

// Timekeeper returns the configured timekeeper.Timekeeper.
func (m *Manager) Timekeeper() timekeeper.Timekeeper {
	return m.timekeeper
}

// Errors returns the channel on which the Manager forwards the first fatal
// (non-task) error observed from any worker's queue wait. It is closed once
// Shutdown completes.
func (m *Manager) Errors() <-chan error {
	return m.publicErrs
}

// Shutdown stops every worker, joins them, and closes Errors(). It is safe
// to call more than once and from multiple goroutines; only the first call
// performs any work.
func (m *Manager) Shutdown() {
	m.lifecycle.Close()
}
