package preprocessor

import (
	"context"
	"sync"
	"time"
)

// streamPollInterval bounds how long StreamFinished can go between checks
// of the finished lane.
const streamPollInterval = 2 * time.Millisecond

// StreamFinished returns a channel of finished tasks, delivered as soon as
// they drain from the queue's finished lane, and a stop function that ends
// the background poller and closes the channel. Unlike RunBatch, tasks are
// not reordered to submission order: this is the low-latency counterpart
// for long-running supervisors that consume completions as they arrive.
//
// The poller also exits when ctx is canceled. The caller must eventually
// call stop (even if it stops reading from the channel, or ctx is already
// canceled) to guarantee the background goroutine has exited.
func StreamFinished(ctx context.Context, mgr *Manager) (out <-chan *Task, stop func()) {
	ch := make(chan *Task, 64)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(ch)
		defer close(stopped)
		ticker := time.NewTicker(streamPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, t := range mgr.FetchFinished() {
					select {
					case ch <- t:
					case <-done:
						return
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			close(done)
			<-stopped
		})
	}
}
