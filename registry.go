package preprocessor

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// Scratch is per-invocation working storage a StepFunc may use instead of
// allocating its own buffer (e.g. building a text result). It is recycled
// through a sync.Pool-backed object pool between invocations (see
// Executor.scratchPool) and must not be retained past the call it was
// handed to.
type Scratch struct {
	Buf bytes.Buffer
}

func (s *Scratch) reset() { s.Buf.Reset() }

// StepFunc evaluates one preprocessing step against the current (value,
// timestamp). It returns either a new (value, timestamp), a discard
// (discard == true, ending the pipeline with a no-value result), or an
// error (ending the pipeline with a structured failure). Implementations
// must have no side effects beyond their return values: they are out of
// scope for this repository and are supplied by the host process.
type StepFunc func(ctx context.Context, v Value, ts time.Time, params map[string]string, scratch *Scratch) (out Value, outTS time.Time, discard bool, err error)

// Registry is a concurrency-safe, name-keyed map of step evaluators: the
// plug-in registry this package treats as an external collaborator. Its
// type lives here; concrete step kinds (JSON path, regex, arithmetic,
// throttling, ...) are registered by the host process via Register.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]StepFunc
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]StepFunc)}
}

// Register installs (or replaces) the evaluator for the given step kind.
func (r *Registry) Register(kind string, fn StepFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[kind] = fn
}

// Lookup returns the evaluator registered for kind, if any.
func (r *Registry) Lookup(kind string) (StepFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[kind]
	return fn, ok
}
