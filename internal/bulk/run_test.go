package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func intKey(id int64) string { return fmt.Sprintf("WP#%d", id) }

func TestRun_EmptyBatch(t *testing.T) {
	calls := 0
	_, err := Run(context.Background(), OpUpdate, fastRetry, []int64{}, intKey,
		func(ctx context.Context, id int64) (any, error) {
			calls++
			return id, nil
		})
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("error = %v, want ErrEmptyBatch", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestRun_BatchOverLimit(t *testing.T) {
	ids := make([]int64, 51)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	var calls atomic.Int64
	_, err := Run(context.Background(), OpUpdate, fastRetry, ids, intKey,
		func(ctx context.Context, id int64) (any, error) {
			calls.Add(1)
			return id, nil
		})

	var limitErr *LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("error = %v, want *LimitError", err)
	}
	if limitErr.Limit != 50 || limitErr.Count != 51 {
		t.Errorf("LimitError = %+v, want Limit=50 Count=51", limitErr)
	}
	if !strings.Contains(err.Error(), "more than 50 items") {
		t.Errorf("message should name the limit: %q", err)
	}
	if !strings.Contains(err.Error(), "split into multiple batches") {
		t.Errorf("message should tell the caller to split: %q", err)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0 (validation must reject before dispatch)", got)
	}
}

func TestRun_DeleteLimitIsStricter(t *testing.T) {
	ids := make([]int64, 31)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	_, err := Run(context.Background(), OpDelete, fastRetry, ids, intKey,
		func(ctx context.Context, id int64) (any, error) { return id, nil })

	var limitErr *LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("error = %v, want *LimitError", err)
	}
	if limitErr.Limit != 30 {
		t.Errorf("delete limit = %d, want 30", limitErr.Limit)
	}
	if !strings.Contains(err.Error(), "more than 30 items") {
		t.Errorf("message should name the limit 30: %q", err)
	}
}

func TestRun_AllSucceed(t *testing.T) {
	ids := []int64{10, 20, 30}
	result, err := Run(context.Background(), OpUpdate, fastRetry, ids, intKey,
		func(ctx context.Context, id int64) (any, error) {
			return id * 2, nil
		})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Total != 3 || result.Succeeded != 3 || result.Failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 3/3/0", result.Total, result.Succeeded, result.Failed)
	}
	if rate := result.SuccessRate(); rate != 100.0 {
		t.Errorf("SuccessRate = %.1f, want 100.0", rate)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}

	// All three keys present, regardless of completion order.
	keys := map[string]bool{}
	for _, s := range result.Successes {
		keys[s.Key] = true
	}
	for _, id := range ids {
		if !keys[intKey(id)] {
			t.Errorf("missing success for %s", intKey(id))
		}
	}
}

func TestRun_PartialFailure(t *testing.T) {
	terminal := errors.New("404 not found")
	cfg := fastRetry.WithRetryable(func(err error) bool { return !errors.Is(err, terminal) })

	ids := []int64{1, 2, 3, 4}
	result, err := Run(context.Background(), OpUpdate, cfg, ids, intKey,
		func(ctx context.Context, id int64) (any, error) {
			if id%2 == 0 {
				return nil, terminal
			}
			return id, nil
		})
	if err != nil {
		t.Fatalf("partial failure must not be a Run error: %v", err)
	}

	if result.Succeeded != 2 || result.Failed != 2 {
		t.Errorf("succeeded/failed = %d/%d, want 2/2", result.Succeeded, result.Failed)
	}
	if result.Succeeded+result.Failed != result.Total {
		t.Errorf("succeeded+failed = %d, want total %d", result.Succeeded+result.Failed, result.Total)
	}
	if rate := result.SuccessRate(); rate != 50.0 {
		t.Errorf("SuccessRate = %.1f, want 50.0", rate)
	}

	// Each error message is tagged with the failing item's key.
	for _, msg := range result.Errors {
		if !strings.Contains(msg, "WP#") || !strings.Contains(msg, "404 not found") {
			t.Errorf("error message %q should carry item key and cause", msg)
		}
	}
}

func TestRun_ItemsRunConcurrently(t *testing.T) {
	const n = 10
	const perItem = 50 * time.Millisecond

	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	start := time.Now()
	result, err := Run(context.Background(), OpUpdate, fastRetry, ids, intKey,
		func(ctx context.Context, id int64) (any, error) {
			time.Sleep(perItem)
			return id, nil
		})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	elapsed := time.Since(start)

	if result.Succeeded != n {
		t.Fatalf("succeeded = %d, want %d", result.Succeeded, n)
	}
	// Sequential execution would take n*perItem = 500ms. Allow generous
	// scheduling slack while still proving fan-out happened.
	if elapsed > n*perItem/2 {
		t.Errorf("elapsed = %v, want well under %v (items must run concurrently)", elapsed, n*perItem)
	}
}

func TestRun_SlowItemDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	var fastDone sync.WaitGroup
	fastDone.Add(2)

	done := make(chan *Result, 1)
	go func() {
		result, err := Run(context.Background(), OpUpdate, fastRetry, []int64{1, 2, 3}, intKey,
			func(ctx context.Context, id int64) (any, error) {
				if id == 3 {
					<-release
					return id, nil
				}
				fastDone.Done()
				return id, nil
			})
		if err != nil {
			t.Errorf("Run failed: %v", err)
		}
		done <- result
	}()

	// The two fast items complete while item 3 is still blocked.
	waitCh := make(chan struct{})
	go func() {
		fastDone.Wait()
		close(waitCh)
	}()
	select {
	case <-waitCh:
	case <-time.After(time.Second):
		t.Fatal("fast items blocked behind the slow one")
	}

	close(release)
	result := <-done
	if result.Succeeded != 3 {
		t.Errorf("succeeded = %d, want 3", result.Succeeded)
	}
}

func TestRun_TransientFailureRecoversPerItem(t *testing.T) {
	// Item 20 fails once with a transient error, then succeeds. The
	// other items are untouched by its retry.
	var failedOnce atomic.Bool
	var calls atomic.Int64

	result, err := Run(context.Background(), OpUpdate, fastRetry, []int64{10, 20, 30}, intKey,
		func(ctx context.Context, id int64) (any, error) {
			calls.Add(1)
			if id == 20 && failedOnce.CompareAndSwap(false, true) {
				return nil, errors.New("request timed out")
			}
			return id, nil
		})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Succeeded != 3 || result.Failed != 0 {
		t.Errorf("succeeded/failed = %d/%d, want 3/0", result.Succeeded, result.Failed)
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("calls = %d, want 4 (three items plus one retry)", got)
	}
}

func TestRun_RetryExhaustionCountsAsFailed(t *testing.T) {
	var calls atomic.Int64
	result, err := Run(context.Background(), OpUpdate, fastRetry, []int64{7}, intKey,
		func(ctx context.Context, id int64) (any, error) {
			calls.Add(1)
			return nil, errors.New("502 bad gateway")
		})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Failed != 1 || result.Succeeded != 0 {
		t.Errorf("succeeded/failed = %d/%d, want 0/1", result.Succeeded, result.Failed)
	}
	if got := calls.Load(); got != int64(fastRetry.MaxRetries+1) {
		t.Errorf("calls = %d, want %d", got, fastRetry.MaxRetries+1)
	}
	if !strings.Contains(result.Errors[0], "all 4 attempts failed") {
		t.Errorf("error should report exhaustion: %q", result.Errors[0])
	}
}

func TestSuccessRate_ZeroTotal(t *testing.T) {
	r := &Result{}
	if rate := r.SuccessRate(); rate != 0.0 {
		t.Errorf("SuccessRate of empty result = %.1f, want 0.0", rate)
	}
}

func TestOperationLimits(t *testing.T) {
	tests := []struct {
		op   Operation
		want int
	}{
		{OpUpdate, 50},
		{OpAddComment, 50},
		{OpSetParent, 50},
		{OpRemoveParent, 50},
		{OpDelete, 30},
		{OpCreate, 30},
		{OpCreateRelation, 30},
		{OpDeleteRelation, 30},
		{Operation("unknown"), 30}, // conservative default
	}
	for _, tt := range tests {
		if got := tt.op.Limit(); got != tt.want {
			t.Errorf("Limit(%s) = %d, want %d", tt.op, got, tt.want)
		}
	}
}
