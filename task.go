package preprocessor

import (
	"time"

	"github.com/arrowmetrics/preprocessor/cache"
)

// Kind tags a Task's payload variant.
type Kind int

const (
	KindTest Kind = iota
	KindValue
	KindValueSeq
	KindDependent
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindTest:
		return "TEST"
	case KindValue:
		return "VALUE"
	case KindValueSeq:
		return "VALUE_SEQ"
	case KindDependent:
		return "DEPENDENT"
	case KindSequence:
		return "SEQUENCE"
	default:
		return "UNKNOWN"
	}
}

// Step is one entry in a preprocessing pipeline. Kind selects the evaluator
// from the Registry; Params are opaque, evaluator-specific configuration.
// Concrete step kinds (JSON path, regex, arithmetic, throttling, ...) are
// out of scope for this repository and are registered by the host process.
type Step struct {
	Kind   string
	Params map[string]string
}

// TestPayload is the variant for a TEST task: an ad-hoc pipeline evaluation
// used by "test this pipeline" UI flows. It never touches the value cache.
type TestPayload struct {
	Steps     []Step
	Input     Value
	Timestamp time.Time

	// PerStep is filled in by the executor, one entry per step, recording
	// the intermediate (value, timestamp/err) after each step ran.
	PerStep []StepResult
}

// ValuePayload is the variant shared by VALUE and VALUE_SEQ tasks: a single
// processed sample, with an optional cache reference for dependent fanout.
type ValuePayload struct {
	Steps     []Step
	Cache     *cache.ValueCache[Value] // nil: opt-out, per task instance
	Input     Value
	Timestamp time.Time
}

// DependentPayload is the variant for a DEPENDENT task: it runs its Primary's
// step list and input on behalf of a derived item, writing the result into
// Cache under the dependent's own item_id.
type DependentPayload struct {
	Primary *Task // always KindValue or KindValueSeq
	Cache   *cache.ValueCache[Value]
}

// sequencePayload is the internal SEQUENCE variant: an ordered queue of
// sub-tasks for one item_id. It is never constructed by a caller; the queue
// builds it the first time a VALUE_SEQ arrives for a given item_id and
// dissolves it once the internal queue drains (see queue.go).
type sequencePayload struct {
	itemID uint64
	subs   []*Task // FIFO; index 0 is the head
}

// Task is a tagged-variant task record. Exactly one of Test/Value/Dependent/
// sequence is non-nil, selected by Kind. Result is populated by the step
// executor once the task (or, for SEQUENCE, its current head sub-task) has
// finished running.
type Task struct {
	ItemID uint64
	Kind   Kind

	Test      *TestPayload
	Value     *ValuePayload
	Dependent *DependentPayload
	sequence  *sequencePayload

	Result *Result

	enqueuedAt time.Time
}

// NewTestTask constructs a TEST task.
func NewTestTask(itemID uint64, steps []Step, input Value, ts time.Time) *Task {
	return &Task{
		ItemID: itemID,
		Kind:   KindTest,
		Test:   &TestPayload{Steps: steps, Input: input, Timestamp: ts},
	}
}

// NewValueTask constructs a VALUE task. c may be nil (no cache write).
func NewValueTask(itemID uint64, steps []Step, c *cache.ValueCache[Value], input Value, ts time.Time) *Task {
	return &Task{
		ItemID: itemID,
		Kind:   KindValue,
		Value:  &ValuePayload{Steps: steps, Cache: c, Input: input, Timestamp: ts},
	}
}

// NewValueSeqTask constructs a VALUE_SEQ task: identical payload to VALUE,
// distinguished only by Kind, so the queue routes it through the
// per-item SEQUENCE serialization path instead of the pending lane directly.
func NewValueSeqTask(itemID uint64, steps []Step, c *cache.ValueCache[Value], input Value, ts time.Time) *Task {
	return &Task{
		ItemID: itemID,
		Kind:   KindValueSeq,
		Value:  &ValuePayload{Steps: steps, Cache: c, Input: input, Timestamp: ts},
	}
}

// NewDependentTask constructs a DEPENDENT task bound to primary, which must
// be a VALUE or VALUE_SEQ task (enforced at execution time as a programming-
// error assertion).
func NewDependentTask(itemID uint64, primary *Task, c *cache.ValueCache[Value]) *Task {
	return &Task{
		ItemID:    itemID,
		Kind:      KindDependent,
		Dependent: &DependentPayload{Primary: primary, Cache: c},
	}
}
