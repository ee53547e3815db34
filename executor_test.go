package preprocessor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arrowmetrics/preprocessor/cache"
	"github.com/arrowmetrics/preprocessor/metrics"
)

func newTestExecutor(t *testing.T) (*Executor, *Registry) {
	t.Helper()
	reg := NewRegistry()
	reg.Register("increment", incrementStep)
	reg.Register("fail", failingStep)
	reg.Register("discard", discardingStep)
	return NewExecutor(reg, 4, metrics.NewNoopProvider()), reg
}

func TestExecutor_ExecuteTest_RecordsPerStep(t *testing.T) {
	x, _ := newTestExecutor(t)
	now := time.Now()
	steps := []Step{{Kind: "increment"}, {Kind: "increment"}, {Kind: "increment"}, {Kind: "increment"}}
	task := NewTestTask(1, steps, NewNumericValue(0, now), now)

	x.ExecuteTest(context.Background(), task)

	require.NoError(t, task.Result.Err)
	require.Equal(t, 4.0, task.Result.Value.Numeric)
	require.Len(t, task.Test.PerStep, 4)
	require.Equal(t, 1.0, task.Test.PerStep[0].Value.Numeric)
	require.Equal(t, 4.0, task.Test.PerStep[3].Value.Numeric)
}

func TestExecutor_ExecuteValue_WritesCache(t *testing.T) {
	x, _ := newTestExecutor(t)
	vc, err := cache.New[Value](16)
	require.NoError(t, err)

	now := time.Now()
	task := NewValueTask(7, []Step{{Kind: "increment"}}, vc, NewNumericValue(41, now), now)
	x.ExecuteValue(context.Background(), task)

	require.NoError(t, task.Result.Err)
	require.Equal(t, 42.0, task.Result.Value.Numeric)

	entry, ok := vc.Get(7)
	require.True(t, ok)
	require.Equal(t, 42.0, entry.Value.Numeric)
}

func TestExecutor_ExecuteValue_NilCache_NoWrite(t *testing.T) {
	x, _ := newTestExecutor(t)
	now := time.Now()
	task := NewValueTask(9, []Step{{Kind: "increment"}}, nil, NewNumericValue(1, now), now)
	require.NotPanics(t, func() { x.ExecuteValue(context.Background(), task) })
	require.Equal(t, 2.0, task.Result.Value.Numeric)
}

func TestExecutor_ExecuteValue_StepError_StopsAtFailingIndex(t *testing.T) {
	x, _ := newTestExecutor(t)
	vc, err := cache.New[Value](16)
	require.NoError(t, err)
	now := time.Now()

	steps := []Step{{Kind: "increment"}, {Kind: "increment"}, {Kind: "increment"}, {Kind: "fail"}, {Kind: "increment"}}
	task := NewValueTask(3, steps, vc, NewNumericValue(0, now), now)
	x.ExecuteValue(context.Background(), task)

	require.Error(t, task.Result.Err)
	idx, ok := ExtractStepIndex(task.Result.Err)
	require.True(t, ok)
	require.Equal(t, 3, idx)

	_, cached := vc.Get(3)
	require.False(t, cached, "cache must not be written on step error")
}

func TestExecutor_ExecuteValue_Discard_SetsDisposition(t *testing.T) {
	x, _ := newTestExecutor(t)
	now := time.Now()
	task := NewValueTask(4, []Step{{Kind: "discard"}}, nil, NewNumericValue(1, now), now)
	x.ExecuteValue(context.Background(), task)

	require.NoError(t, task.Result.Err)
	require.Equal(t, DispositionDiscarded, task.Result.Disposition)
}

func TestExecutor_ExecuteDependent_WritesUnderOwnItemID(t *testing.T) {
	x, _ := newTestExecutor(t)
	vc, err := cache.New[Value](16)
	require.NoError(t, err)
	now := time.Now()

	primary := NewValueTask(7, []Step{{Kind: "increment"}}, vc, NewNumericValue(3.14, now), now)
	dependent := NewDependentTask(8, primary, vc)

	x.ExecuteDependent(context.Background(), dependent)

	require.NoError(t, dependent.Result.Err)
	_, primaryCached := vc.Get(7)
	require.False(t, primaryCached, "dependent execution must not populate the primary's own slot")

	entry, ok := vc.Get(8)
	require.True(t, ok)
	require.InDelta(t, 4.14, entry.Value.Numeric, 0.0001)
}

func TestExecutor_ExecuteDependent_NilPrimary_Panics(t *testing.T) {
	x, _ := newTestExecutor(t)
	dependent := &Task{ItemID: 8, Kind: KindDependent, Dependent: &DependentPayload{Primary: nil}}
	require.PanicsWithValue(t, ErrNilPrimary, func() {
		x.ExecuteDependent(context.Background(), dependent)
	})
}

func TestExecutor_UnregisteredStepKind_Errors(t *testing.T) {
	x, _ := newTestExecutor(t)
	now := time.Now()
	task := NewValueTask(1, []Step{{Kind: "does-not-exist"}}, nil, NewNumericValue(1, now), now)
	x.ExecuteValue(context.Background(), task)
	require.Error(t, task.Result.Err)
}
