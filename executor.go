package preprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/arrowmetrics/preprocessor/cache"
	"github.com/arrowmetrics/preprocessor/metrics"
	"github.com/arrowmetrics/preprocessor/pool"
)

// Executor drives a task's step list against the Registry. One Executor is
// shared read-only across workers (the Registry is its own concurrency-safe
// map); the scratch buffers it hands out to steps are borrowed exclusively
// for the duration of a single step call.
type Executor struct {
	registry *Registry

	// scratchPool recycles *Scratch buffers across step calls: the buffer
	// reuse half of the per-worker scratch area. Backed by pool.NewDynamic
	// (a sync.Pool wrapper): any worker may borrow any buffer, but never two
	// at once, so "never shared between workers" holds for the duration of
	// a checkout even though buffers themselves circulate between workers
	// over time.
	scratchPool pool.Pool

	// perStepPool recycles []StepResult slices for TEST tasks, bounded to
	// at most one per concurrently-running TEST task (capacity == worker
	// count, since no more than that many tasks are ever in_progress at
	// once).
	perStepPool pool.Pool

	stepLatency metrics.Histogram
}

// NewExecutor constructs an Executor. workerCount sizes the bounded
// per-step-result slice pool.
func NewExecutor(registry *Registry, workerCount uint, provider metrics.Provider) *Executor {
	if workerCount == 0 {
		workerCount = 1
	}
	return &Executor{
		registry:    registry,
		scratchPool: pool.NewDynamic(func() interface{} { return &Scratch{} }),
		perStepPool: pool.NewFixed(workerCount, func() interface{} { return new([]StepResult) }),
		stepLatency: provider.Histogram("preprocessor_step_duration_seconds", metrics.WithUnit("seconds")),
	}
}

// ExecuteTest runs a TEST task's pipeline, recording each step's post-state
// into t.Test.PerStep. It never touches a value cache.
func (x *Executor) ExecuteTest(ctx context.Context, t *Task) {
	p := t.Test
	result, perStep := x.run(ctx, t.ItemID, p.Steps, p.Input, p.Timestamp, true)
	p.PerStep = perStep
	t.Result = &result
}

// ExecuteValue runs a VALUE or VALUE_SEQ task's pipeline and, on success,
// writes the final value into its cache (if one was attached).
func (x *Executor) ExecuteValue(ctx context.Context, t *Task) {
	p := t.Value
	result, _ := x.run(ctx, t.ItemID, p.Steps, p.Input, p.Timestamp, false)
	t.Result = &result
	x.maybeWriteCache(p.Cache, t.ItemID, result)
}

// ExecuteDependent runs a DEPENDENT task: the pipeline is the primary's, the
// input is the primary's, but the cache write (if any) is keyed by the
// dependent's own item_id, never the primary's.
func (x *Executor) ExecuteDependent(ctx context.Context, t *Task) {
	primary := t.Dependent.Primary
	if primary == nil || primary.Value == nil {
		panic(ErrNilPrimary)
	}
	p := primary.Value
	result, _ := x.run(ctx, t.ItemID, p.Steps, p.Input, p.Timestamp, false)
	t.Result = &result
	x.maybeWriteCache(t.Dependent.Cache, t.ItemID, result)
}

func (x *Executor) maybeWriteCache(c *cache.ValueCache[Value], itemID uint64, result Result) {
	if c == nil || result.Err != nil || result.Disposition == DispositionDiscarded {
		return
	}
	c.Put(itemID, result.Value, result.Value.Timestamp)
}

// run iterates steps in order, short-circuiting on the first error or
// discard. recordPerStep is true only for TEST tasks.
func (x *Executor) run(
	ctx context.Context, itemID uint64, steps []Step, input Value, ts time.Time, recordPerStep bool,
) (result Result, perStep []StepResult) {
	start := time.Now()
	defer func() { x.stepLatency.Record(time.Since(start).Seconds()) }()

	defer func() {
		if r := recover(); r != nil {
			result = Result{Err: fmt.Errorf("%w: %v", ErrStepPanicked, r)}
		}
	}()

	var acc *[]StepResult
	if recordPerStep {
		acc = x.perStepPool.Get().(*[]StepResult)
		*acc = (*acc)[:0]
		defer func() {
			*acc = (*acc)[:0]
			x.perStepPool.Put(acc)
		}()
	}
	record := func(sr StepResult) {
		if recordPerStep {
			*acc = append(*acc, sr)
			perStep = append([]StepResult(nil), *acc...) // caller-owned copy, independent of the pooled backing array
		}
	}

	scratch := x.scratchPool.Get().(*Scratch)
	defer func() {
		scratch.reset()
		x.scratchPool.Put(scratch)
	}()

	value, valueTS := input, ts
	for i, step := range steps {
		fn, ok := x.registry.Lookup(step.Kind)
		if !ok {
			err := newStepError(fmt.Errorf("unregistered step kind %q", step.Kind), itemID, i)
			record(StepResult{Err: err})
			return Result{Err: err}, perStep
		}

		out, outTS, discard, err := fn(ctx, value, valueTS, step.Params, scratch)
		if err != nil {
			wrapped := newStepError(err, itemID, i)
			record(StepResult{Err: wrapped})
			return Result{Err: wrapped}, perStep
		}
		if discard {
			record(StepResult{Value: NoneValue(valueTS)})
			return Result{Value: NoneValue(valueTS), Disposition: DispositionDiscarded}, perStep
		}

		value, valueTS = out, outTS
		record(StepResult{Value: value})
	}

	return Result{Value: value, Disposition: DispositionNormal}, perStep
}
