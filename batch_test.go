package preprocessor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunBatch_ReturnsResultsInSubmissionOrder(t *testing.T) {
	mgr := newTestManager(t)
	now := time.Now()

	tasks := make([]*Task, 20)
	for i := range tasks {
		tasks[i] = NewValueTask(uint64(i), []Step{{Kind: "increment"}}, nil, NewNumericValue(float64(i), now), now)
	}

	results, err := RunBatch(context.Background(), mgr, tasks)
	require.NoError(t, err)
	require.Len(t, results, 20)
	for i, r := range results {
		require.NoError(t, r.Err)
		require.Equal(t, float64(i)+1, r.Value.Numeric)
	}
}

func TestRunBatch_EmptyInput(t *testing.T) {
	mgr := newTestManager(t)
	results, err := RunBatch(context.Background(), mgr, nil)
	require.NoError(t, err)
	require.Nil(t, results)
}

func TestRunBatch_ContextCanceled(t *testing.T) {
	mgr := newTestManager(t, WithWorkerCount(1))
	now := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []*Task{NewValueTask(1, []Step{{Kind: "increment"}}, nil, NewNumericValue(1, now), now)}
	_, err := RunBatch(ctx, mgr, tasks)
	require.ErrorIs(t, err, context.Canceled)
}
