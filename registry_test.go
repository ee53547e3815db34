package preprocessor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// incrementStep adds 1 to a numeric value; used across executor/manager tests.
func incrementStep(_ context.Context, v Value, ts time.Time, _ map[string]string, _ *Scratch) (Value, time.Time, bool, error) {
	return NewNumericValue(v.Numeric+1, ts), ts, false, nil
}

// failingStep always errors, to exercise StepError tagging.
func failingStep(_ context.Context, _ Value, ts time.Time, _ map[string]string, _ *Scratch) (Value, time.Time, bool, error) {
	return Value{}, ts, false, errors.New("boom")
}

// discardingStep always discards, to exercise DispositionDiscarded.
func discardingStep(_ context.Context, _ Value, ts time.Time, _ map[string]string, _ *Scratch) (Value, time.Time, bool, error) {
	return Value{}, ts, true, nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("increment")
	require.False(t, ok)

	r.Register("increment", incrementStep)
	fn, ok := r.Lookup("increment")
	require.True(t, ok)
	require.NotNil(t, fn)
}
