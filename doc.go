// Package preprocessor implements a preprocessing task scheduler for monitored
// metric values: a fixed pool of worker goroutines draining a single queue
// of tasks, executing user-registered transformation pipelines ("steps")
// against incoming samples.
//
// Constructors
//   - NewManager(ctx, opts ...Option): builds and starts a Manager. Workers
//     start running immediately; there is no deferred-start mode, since the
//     worker count is fixed for the Manager's lifetime.
//
// Task kinds
// A Task is one of five kinds: TEST (ad-hoc pipeline evaluation for UI
// "test this pipeline" flows), VALUE (a single processed sample), VALUE_SEQ
// (a sample belonging to an ordered per-item stream), DEPENDENT (a derived
// item that rides a primary VALUE/VALUE_SEQ task's pipeline), and SEQUENCE
// (an internal scheduling token; Manager.Enqueue never accepts one directly).
//
// Ordering
// VALUE_SEQ tasks for the same item_id are collapsed onto a single SEQUENCE
// token so that, whatever the worker pool's parallelism, at most one of that
// item's ordered tasks ever executes at a time, and completions surface to
// Manager.FetchFinished in submission order.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created Manager:
//   - WorkerCount: 4
//   - QueueWaitTimeout: 1s
//   - CacheCapacity: 4096 entries (LRU)
//   - ErrorsBufferSize: 64
//   - MetricsProvider: metrics.NewNoopProvider()
//   - Timekeeper: timekeeper.NewNoopTimekeeper()
//
// Channel lifecycle
// Manager.Errors() returns a channel carrying fatal, per-worker errors (queue
// wait failures); it is never used for step-execution errors, which travel
// on the task's own Result instead. The channel is closed once, during
// Shutdown.
package preprocessor
