package preprocessor

import (
	"sync"
	"time"

	"github.com/phuslu/log"

	"github.com/arrowmetrics/preprocessor/timekeeper"
)

// workerPool owns a fixed, configured-at-startup number of worker
// goroutines sharing one Queue. There is no work-stealing: every worker
// pops from the same queue.
type workerPool struct {
	workers []*worker
	wg      sync.WaitGroup
}

func startWorkerPool(
	count uint, q *Queue, x *Executor, tk timekeeper.Timekeeper, logger *log.Logger,
	waitTimeout time.Duration, errs chan<- error,
) *workerPool {
	p := &workerPool{workers: make([]*worker, 0, count)}
	for i := 1; i <= int(count); i++ {
		w := newWorker(i, q, x, tk, logger, waitTimeout, errs)
		p.workers = append(p.workers, w)
		p.wg.Add(1)
		go w.run(&p.wg)
	}
	return p
}

// shutdown requests every worker to stop after its current task, wakes any
// worker blocked in Wait, and joins all of them.
func (p *workerPool) shutdown() {
	for _, w := range p.workers {
		w.stop()
	}
	// Stop marks the queue as deliberately shut down and wakes every worker
	// blocked in waitLocked so it observes stopping promptly instead of
	// sitting out the rest of its bounded wait.
	if len(p.workers) > 0 {
		p.workers[0].queue.Stop()
	}
	p.wg.Wait()
}
