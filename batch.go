package preprocessor

import (
	"context"
	"time"
)

// batchPollInterval bounds how long RunBatch can go without checking for
// newly finished tasks when the queue itself has nothing left to wake it.
const batchPollInterval = 2 * time.Millisecond

// RunBatch enqueues tasks and blocks until every one of them has finished,
// returning their Results in submission order regardless of the order the
// worker pool actually completed them in. It is the synchronous counterpart
// to StreamFinished, for callers that want one-shot "process these N items"
// semantics.
//
// RunBatch returns early with an error if ctx is canceled or the Manager
// reports a fatal queue-wait failure; any task already finished by then is
// discarded along with the ones still outstanding; the caller is expected to
// treat the whole batch as failed and retry.
func RunBatch(ctx context.Context, mgr *Manager, tasks []*Task) ([]Result, error) {
	n := len(tasks)
	if n == 0 {
		return nil, nil
	}

	idxOf := make(map[*Task]int, n)
	for i, t := range tasks {
		idxOf[t] = i
		if err := mgr.Enqueue(t); err != nil {
			return nil, err
		}
	}

	events := make(chan completionEvent[Result], n)
	results := make(chan Result, n)
	r := newReorderer[Result](events, results)
	go r.run()

	remaining := n
	ticker := time.NewTicker(batchPollInterval)
	defer ticker.Stop()

loop:
	for remaining > 0 {
		select {
		case <-ctx.Done():
			close(events)
			return nil, ctx.Err()
		case err := <-mgr.Errors():
			close(events)
			return nil, err
		case <-ticker.C:
			for _, t := range mgr.FetchFinished() {
				idx, ok := idxOf[t]
				if !ok {
					continue
				}
				events <- completionEvent[Result]{idx: idx, val: *t.Result}
				remaining--
			}
			if remaining == 0 {
				break loop
			}
		}
	}
	close(events)

	out := make([]Result, n)
	for i := 0; i < n; i++ {
		out[i] = <-results
	}
	return out, nil
}
