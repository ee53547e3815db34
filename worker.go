package preprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phuslu/log"

	"github.com/arrowmetrics/preprocessor/timekeeper"
)

// worker is one of the fixed pool of identical goroutines: pop-execute-
// push_finished, with a bounded wait in between when pending is empty.
// Identifiers are 1-based so they map directly onto Timekeeper slots.
type worker struct {
	id       int
	queue    *Queue
	executor *Executor
	tk       timekeeper.Timekeeper
	logger   *log.Logger

	stopping bool
	stopMu   sync.Mutex

	waitTimeout time.Duration
	errs        chan<- error
}

func newWorker(id int, q *Queue, x *Executor, tk timekeeper.Timekeeper, logger *log.Logger, waitTimeout time.Duration, errs chan<- error) *worker {
	return &worker{
		id:          id,
		queue:       q,
		executor:    x,
		tk:          tk,
		logger:      logger,
		waitTimeout: waitTimeout,
		errs:        errs,
	}
}

// stop requests cooperative shutdown: the worker finishes any in-flight
// task, then observes the flag between tasks and exits. Cancellation is
// coarse: there is no per-task cancellation.
func (w *worker) stop() {
	w.stopMu.Lock()
	w.stopping = true
	w.stopMu.Unlock()
}

func (w *worker) isStopping() bool {
	w.stopMu.Lock()
	defer w.stopMu.Unlock()
	return w.stopping
}

// run is the worker's loop:
//  1. register (once, on startup, deferred deregister on exit)
//  2. acquire M; while not stopping: pop_new or wait; release M; execute;
//     reacquire M; push_finished.
func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	w.queue.RegisterWorker()
	defer w.queue.DeregisterWorker()

	w.queue.mu.Lock()
	defer w.queue.mu.Unlock()

	for {
		if w.isStopping() {
			return
		}

		t, ok := w.queue.popNewLocked()
		if !ok {
			if err := w.queue.waitLocked(w.waitTimeout); err != nil {
				w.logger.Error().Int("worker_id", w.id).Err(err).Msg("queue wait failed; worker self-stopping")
				w.forwardFatal(err)
				return
			}
			continue
		}

		w.queue.mu.Unlock()
		w.executeWithRecovery(t)
		w.queue.mu.Lock()

		w.queue.pushFinishedLocked(t)
	}
}

// executeWithRecovery dispatches t by kind and guarantees t (or its current
// SEQUENCE head sub-task) ends up with a populated Result even if the
// executor panics: push_finished must still run, treating execution failure
// as "completed with error result", never as "task lost".
func (w *worker) executeWithRecovery(t *Task) {
	w.tk.BusyStart(w.id)
	defer w.tk.Idle(w.id)

	target := t
	if t.Kind == KindSequence {
		target = peekHeadSub(t)
	}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Int("worker_id", w.id).Uint64("item_id", target.ItemID).Interface("panic", r).Msg("task execution panicked")
			target.Result = &Result{Err: fmt.Errorf("%w: %v", ErrStepPanicked, r)}
		}
	}()

	switch target.Kind {
	case KindTest:
		w.executor.ExecuteTest(context.Background(), target)
	case KindValue, KindValueSeq:
		w.executor.ExecuteValue(context.Background(), target)
	case KindDependent:
		w.executor.ExecuteDependent(context.Background(), target)
	default:
		panic(ErrInvalidTaskKind)
	}
}

// forwardFatal sends a worker's fatal error on the shared errors channel
// without blocking indefinitely if nobody is reading it.
func (w *worker) forwardFatal(err error) {
	select {
	case w.errs <- fmt.Errorf("worker %d: %w", w.id, err):
	default:
		go func() { w.errs <- fmt.Errorf("worker %d: %w", w.id, err) }()
	}
}
