package audit

// ProgressFunc receives progress updates during an audit or cleanup run.
// It is invoked synchronously on the calling goroutine with a
// monotonically non-decreasing current, starting at (0, total) and ending
// at (total, total). UIs may rely on the final call as a completion
// signal.
type ProgressFunc func(current, total int)

// nopProgress lets runs treat a nil callback uniformly.
func nopProgress(int, int) {}

// orNop returns the callback or a no-op when nil.
func (p ProgressFunc) orNop() ProgressFunc {
	if p == nil {
		return nopProgress
	}
	return p
}
