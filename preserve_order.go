package preprocessor

// completionEvent carries one finished task back to the reorderer. idx is
// the position the task held in the caller's original RunBatch slice; val
// is its Result once Task.Result has been populated by a worker.
type completionEvent[R any] struct {
	idx int
	val R
}
