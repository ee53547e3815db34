package preprocessor

import (
	"errors"
	"fmt"
)

// StepError exposes correlation metadata for a step-pipeline failure: which
// item_id it happened for and which step index in the pipeline rejected its
// input. This is the domain adaptation of a generic tagged-task-error
// pattern: same Unwrap/Format contract, fields renamed from task
// id/index to item_id/step index.
type StepError interface {
	error
	Unwrap() error
	ItemID() uint64
	StepIndex() int
}

type stepError struct {
	err       error
	itemID    uint64
	stepIndex int
}

// newStepError wraps err with the item_id and failing step index. Returns
// nil if err is nil, so callers can write `result.Err = newStepError(err, ...)`
// unconditionally after a step call.
func newStepError(err error, itemID uint64, stepIndex int) error {
	if err == nil {
		return nil
	}
	return &stepError{err: err, itemID: itemID, stepIndex: stepIndex}
}

func (e *stepError) Error() string {
	return fmt.Sprintf("step %d: %s", e.stepIndex, e.err.Error())
}
func (e *stepError) Unwrap() error  { return e.err }
func (e *stepError) ItemID() uint64 { return e.itemID }
func (e *stepError) StepIndex() int { return e.stepIndex }

// ExtractStepIndex returns the failing step's index from err, if err (or
// something it wraps) is a StepError.
func ExtractStepIndex(err error) (int, bool) {
	var se StepError
	if errors.As(err, &se) {
		return se.StepIndex(), true
	}
	return 0, false
}

// ExtractItemID returns the item_id from err, if err (or something it
// wraps) is a StepError.
func ExtractItemID(err error) (uint64, bool) {
	var se StepError
	if errors.As(err, &se) {
		return se.ItemID(), true
	}
	return 0, false
}
