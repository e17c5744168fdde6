package watch

import "fmt"

// countTracker remembers the partition sizes of the previous run so the
// watcher can report how they moved.
type countTracker struct {
	prev *RunResult
}

// observe records r and describes the change against the previous run. It
// reports false for the first run and when nothing moved.
func (t *countTracker) observe(r *RunResult) (string, bool) {
	prev := t.prev
	t.prev = &RunResult{Kept: r.Kept, Excluded: r.Excluded}

	if prev == nil || (prev.Kept == r.Kept && prev.Excluded == r.Excluded) {
		return "", false
	}

	return fmt.Sprintf("kept %d → %d (%+d), excluded %d → %d (%+d)",
		prev.Kept, r.Kept, r.Kept-prev.Kept,
		prev.Excluded, r.Excluded, r.Excluded-prev.Excluded), true
}
