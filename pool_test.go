package preprocessor

import (
	"testing"
	"time"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/require"

	"github.com/arrowmetrics/preprocessor/metrics"
	"github.com/arrowmetrics/preprocessor/timekeeper"
)

func TestWorkerPool_ProcessesConcurrentlyAndShutsDownCleanly(t *testing.T) {
	q := NewQueue(metrics.NewNoopProvider())
	reg := NewRegistry()
	reg.Register("increment", incrementStep)
	x := NewExecutor(reg, 8, metrics.NewNoopProvider())
	tk := timekeeper.NewBasicTimekeeper()
	errs := make(chan error, 8)

	p := startWorkerPool(8, q, x, tk, &log.DefaultLogger, 20*time.Millisecond, errs)

	const n = 1000
	now := time.Now()
	tasks := make([]*Task, n)
	for i := 0; i < n; i++ {
		tasks[i] = NewValueTask(uint64(i), []Step{{Kind: "increment"}}, nil, NewNumericValue(float64(i), now), now)
		require.NoError(t, q.Enqueue(tasks[i]))
	}

	require.Eventually(t, func() bool {
		for _, task := range tasks {
			if task.Result == nil {
				return false
			}
		}
		return true
	}, 5*time.Second, time.Millisecond)

	for i, task := range tasks {
		require.NoError(t, task.Result.Err)
		require.Equal(t, float64(i)+1, task.Result.Value.Numeric)
	}

	p.shutdown()
}

func TestWorkerPool_ShutdownMidExecution_LosesNoTask(t *testing.T) {
	q := NewQueue(metrics.NewNoopProvider())
	x := NewExecutor(NewRegistry(), 3, metrics.NewNoopProvider())
	tk := timekeeper.NewBasicTimekeeper()
	errs := make(chan error, 3)

	p := startWorkerPool(3, q, x, tk, &log.DefaultLogger, 20*time.Millisecond, errs)

	now := time.Now()
	tasks := make([]*Task, 30)
	for i := range tasks {
		tasks[i] = NewValueTask(uint64(i), nil, nil, NewNumericValue(float64(i), now), now)
		require.NoError(t, q.Enqueue(tasks[i]))
	}

	time.Sleep(5 * time.Millisecond)
	p.shutdown()

	total := len(q.FetchFinished())
	total += q.PendingDepth()
	total += q.InProgressCount()
	require.Equal(t, 30, total, "no task may be lost across a mid-execution shutdown")
}
