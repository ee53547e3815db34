package preprocessor

import "errors"

const Namespace = "preprocessor"

var (
	// ErrInvalidConfig is returned by NewManager when a supplied Config/Option
	// combination fails validation (e.g. WorkerCount == 0).
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrQueueStopped is returned by Enqueue once Shutdown has been called.
	ErrQueueStopped = errors.New(Namespace + ": queue is stopped")

	// ErrInvalidTaskKind is a programming-error assertion: SEQUENCE tasks are
	// produced internally by the queue and must never be constructed or
	// enqueued by a caller.
	ErrInvalidTaskKind = errors.New(Namespace + ": SEQUENCE tasks cannot be enqueued directly")

	// ErrNilPrimary is a programming-error assertion: a DEPENDENT task must
	// reference a materialized VALUE/VALUE_SEQ primary task.
	ErrNilPrimary = errors.New(Namespace + ": dependent task has a nil primary")

	// ErrEmptySequence is a programming-error assertion: a SEQUENCE task must
	// never be pushed to finished with an empty internal queue still pending.
	ErrEmptySequence = errors.New(Namespace + ": sequence task has an empty internal queue")

	// ErrStepPanicked wraps a step evaluator panic recovered by the executor.
	// The recovered value is never propagated to the queue as a Go error;
	// it becomes the task's Result.Err instead, wrapping this sentinel. That
	// error is not a StepError and carries no step index.
	ErrStepPanicked = errors.New(Namespace + ": step execution panicked")

	// ErrQueueWaitFailed marks a queue in a poisoned state (see Queue.Poison).
	// A worker observing this error from Wait self-stops after forwarding it
	// on the Manager's error channel, per the fatal queue-wait-failure path.
	ErrQueueWaitFailed = errors.New(Namespace + ": queue wait failed")
)
