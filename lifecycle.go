package preprocessor

import "sync"

// lifecycleCoordinator encapsulates Manager's shutdown sequence. It is a
// wiring helper: it doesn't own the queue or pool, it orchestrates stopping
// workers, joining them, and closing the errors channel in a deterministic
// order, exactly once even under concurrent Shutdown calls.
type lifecycleCoordinator struct {
	stopAndJoin func() // request stop on every worker and wait for them to exit
	closeErrors func() // close the fatal-errors channel

	once sync.Once
}

func newLifecycleCoordinator(stopAndJoin, closeErrors func()) *lifecycleCoordinator {
	return &lifecycleCoordinator{stopAndJoin: stopAndJoin, closeErrors: closeErrors}
}

// Close executes the shutdown sequence exactly once:
//  1. stop every worker and join its goroutine (no task is left mid-flight:
//     a worker that is executing finishes and calls push_finished before it
//     observes the stop flag)
//  2. close the errors channel, now that no worker can write to it again
func (lc *lifecycleCoordinator) Close() {
	lc.once.Do(func() {
		if lc.stopAndJoin != nil {
			lc.stopAndJoin()
		}
		if lc.closeErrors != nil {
			lc.closeErrors()
		}
	})
}
