package bulk

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyBatch rejects a batch with no items, regardless of operation.
var ErrEmptyBatch = errors.New("batch is empty")

// LimitError rejects a batch exceeding the operation's safety ceiling.
type LimitError struct {
	Op    Operation
	Limit int
	Count int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf(
		"cannot %s more than %d items at once for safety: got %d, please split into multiple batches",
		e.Op, e.Limit, e.Count,
	)
}

// Item is one successful per-item outcome, tagged with the item's key
// so callers can correlate results regardless of completion order.
type Item struct {
	Key   string
	Value any
}

// Result aggregates a whole batch. It is never produced for validation
// failures — those reject the batch before any request is dispatched.
// Partial failure is normal: Succeeded+Failed == Total always holds, and
// callers inspect Failed/Errors rather than an error return.
type Result struct {
	Operation Operation
	Total     int
	Succeeded int
	Failed    int

	// Successes and Errors are in completion order, not submission
	// order; match on the embedded item key when correlation matters.
	Successes []Item
	Errors    []string // "<item-key>: <message>"

	Duration time.Duration
}

// SuccessRate returns the percentage of succeeded items, 0.0 for an
// empty result.
func (r *Result) SuccessRate() float64 {
	if r.Total == 0 {
		return 0.0
	}
	return float64(r.Succeeded) / float64(r.Total) * 100.0
}
