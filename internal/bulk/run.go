package bulk

import (
	"context"
	"time"
)

// outcome is one finished per-item task.
type outcome struct {
	key   string
	value any
	err   error
}

// Run validates a batch and executes one retry-wrapped call per item
// concurrently. The batch ceiling itself bounds the fan-out, so there is
// no further concurrency cap. A failing item never cancels the others;
// once dispatched, every task runs to completion (success, terminal
// error, or retry exhaustion) before the aggregate is returned.
//
// Validation failures (empty batch, batch over the operation's limit)
// return a non-nil error and dispatch nothing. All per-item failures are
// folded into the Result instead — Run never errors for partial failure.
func Run[I any](
	ctx context.Context,
	operation Operation,
	cfg RetryConfig,
	items []I,
	key func(I) string,
	call func(context.Context, I) (any, error),
) (*Result, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	if limit := operation.Limit(); len(items) > limit {
		return nil, &LimitError{Op: operation, Limit: limit, Count: len(items)}
	}

	start := time.Now()
	outcomes := make(chan outcome, len(items))

	for _, item := range items {
		go func() {
			value, err := Retry(ctx, cfg, func(ctx context.Context) (any, error) {
				return call(ctx, item)
			})
			outcomes <- outcome{key: key(item), value: value, err: err}
		}()
	}

	result := &Result{Operation: operation, Total: len(items)}
	for range items {
		o := <-outcomes
		if o.err != nil {
			result.Errors = append(result.Errors, o.key+": "+o.err.Error())
		} else {
			result.Successes = append(result.Successes, Item{Key: o.key, Value: o.value})
		}
	}

	result.Succeeded = len(result.Successes)
	result.Failed = len(result.Errors)
	result.Duration = time.Since(start)
	return result, nil
}
