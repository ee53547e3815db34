package preprocessor

import (
	"sync"
	"time"

	"github.com/arrowmetrics/preprocessor/metrics"
)

// Queue is the concurrency core: four internal lanes (pending, in_progress,
// finished, sequences) guarded by a single mutex and condition variable.
// All lane mutations happen under mu; workers block only in Wait, and only
// while holding mu (sync.Cond's contract).
type Queue struct {
	mu   sync.Mutex
	cond *sync.Cond

	pending    []*Task
	inProgress map[*Task]struct{}
	finished   []*Task
	sequences  map[uint64]*Task // item_id -> in-flight/pending SEQUENCE task

	workerCount int
	poisoned    error // set by Poison; makes Wait return immediately
	stopped     bool  // set by Stop; makes Enqueue reject new work

	metrics         metrics.Provider
	pendingGauge    metrics.UpDownCounter
	inProgressGauge metrics.UpDownCounter
	enqueuedCount   metrics.Counter
	finishedCount   metrics.Counter
}

// NewQueue constructs an empty Queue. provider may be metrics.NewNoopProvider().
func NewQueue(provider metrics.Provider) *Queue {
	q := &Queue{
		inProgress: make(map[*Task]struct{}),
		sequences:  make(map[uint64]*Task),
		metrics:    provider,
	}
	q.cond = sync.NewCond(&q.mu)
	q.pendingGauge = provider.UpDownCounter("preprocessor_pending_depth")
	q.inProgressGauge = provider.UpDownCounter("preprocessor_in_progress")
	q.enqueuedCount = provider.Counter("preprocessor_tasks_enqueued")
	q.finishedCount = provider.Counter("preprocessor_tasks_finished")
	return q
}

// RegisterWorker accounts for one more worker; deregister on worker exit.
func (q *Queue) RegisterWorker() {
	q.mu.Lock()
	q.workerCount++
	q.mu.Unlock()
}

// DeregisterWorker accounts for a worker's exit and wakes any other worker
// that might be waiting on a now-moot shutdown condition.
func (q *Queue) DeregisterWorker() {
	q.mu.Lock()
	q.workerCount--
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Enqueue hands a task to the queue. Ownership transfers to the queue.
//
//   - TEST, VALUE, DEPENDENT: appended to pending, signal.
//   - VALUE_SEQ: joins the existing SEQUENCE for its item_id if one is
//     in flight or pending, else a new SEQUENCE is created and that is what
//     goes on pending.
//   - SEQUENCE: never accepted from a caller (ErrInvalidTaskKind); it is
//     produced only internally by the VALUE_SEQ path above.
func (q *Queue) Enqueue(t *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped || q.poisoned != nil {
		return ErrQueueStopped
	}

	switch t.Kind {
	case KindSequence:
		return ErrInvalidTaskKind

	case KindValueSeq:
		if seq, ok := q.sequences[t.ItemID]; ok {
			appendSub(seq, t)
			// No signal: no new runnable work surfaced, the SEQUENCE token
			// for this item_id is already on pending or in_progress.
		} else {
			seq := newSequenceTask(t.ItemID, t)
			q.sequences[t.ItemID] = seq
			q.pending = append(q.pending, seq)
			q.pendingGauge.Add(1)
			q.cond.Signal()
		}

	default: // KindTest, KindValue, KindDependent
		q.pending = append(q.pending, t)
		q.pendingGauge.Add(1)
		q.cond.Signal()
	}

	t.enqueuedAt = time.Now()
	q.enqueuedCount.Add(1)
	return nil
}

// popNewLocked pops the head of pending into in_progress and returns it.
// Caller must hold mu. For a SEQUENCE task, the worker is expected to peek
// (not pop) its internal head sub-task and execute that; the SEQUENCE object
// itself is what moves through in_progress/pending/finished.
func (q *Queue) popNewLocked() (*Task, bool) {
	if len(q.pending) == 0 {
		return nil, false
	}
	t := q.pending[0]
	q.pending = q.pending[1:]
	q.pendingGauge.Add(-1)

	q.inProgress[t] = struct{}{}
	q.inProgressGauge.Add(1)
	return t, true
}

// waitLocked blocks on the condition variable until pending becomes
// non-empty, the queue is poisoned, or timeout elapses. Caller must hold mu;
// mu is released while blocked and reacquired before returning, per
// sync.Cond's contract.
func (q *Queue) waitLocked(timeout time.Duration) error {
	if q.poisoned != nil {
		return q.poisoned
	}
	timer := time.AfterFunc(timeout, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()
	q.cond.Wait()
	return q.poisoned
}

// pushFinishedLocked returns t (or, for a SEQUENCE, its just-executed head
// sub-task) to the finished lane. Caller must hold mu.
//
// For SEQUENCE: the worker executed the head sub-task and populated its
// Result; pushFinishedLocked always surfaces that sub-task to finished (the
// supervisor only ever observes individual sub-tasks, in submission order),
// then either retires the SEQUENCE (internal queue drained: drop it from
// `sequences`) or requeues the SEQUENCE to the tail of pending so the next
// sub-task becomes eligible while other items interleave.
func (q *Queue) pushFinishedLocked(t *Task) {
	delete(q.inProgress, t)
	q.inProgressGauge.Add(-1)

	if t.Kind == KindSequence {
		head := popHeadSub(t)
		q.finished = append(q.finished, head)
		q.finishedCount.Add(1)

		if isSequenceEmpty(t) {
			delete(q.sequences, t.ItemID)
		} else {
			q.pending = append(q.pending, t)
			q.pendingGauge.Add(1)
			q.cond.Signal()
		}
		return
	}

	q.finished = append(q.finished, t)
	q.finishedCount.Add(1)
}

// FetchFinished drains and returns the finished lane as a batch. Ownership
// of the returned tasks transfers back to the caller.
func (q *Queue) FetchFinished() []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.finished) == 0 {
		return nil
	}
	out := q.finished
	q.finished = nil
	return out
}

// PendingDepth is a best-effort snapshot of the pending lane's length.
func (q *Queue) PendingDepth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// InProgressCount is a best-effort snapshot of the in_progress lane's size.
func (q *Queue) InProgressCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inProgress)
}

// Poison marks the queue as fatally broken: every blocked and future Wait
// call returns err immediately, without waiting for pending work. It is
// never set by normal operation, only by administrative code reacting to an
// unrecoverable synchronization failure.
func (q *Queue) Poison(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.poisoned == nil {
		q.poisoned = err
	}
	q.cond.Broadcast()
}

// Stop marks the queue as deliberately shut down: every future Enqueue call
// fails with ErrQueueStopped, and any worker blocked in Wait is woken to
// observe its own stop flag. Unlike Poison, Stop never makes Wait itself
// return an error; a cooperative shutdown is never reported as a failure.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped = true
	q.cond.Broadcast()
}
