package reveal

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

// fakePager scripts the page interactions for loop tests.
type fakePager struct {
	clicks     int
	maxClicks  int // ClickLoadMore returns true this many times
	count      int
	growPer    int // cards added per successful click
	alwaysGrow bool
}

func (f *fakePager) ScrollBottom(context.Context) error { return nil }

func (f *fakePager) ClickLoadMore(context.Context) (bool, error) {
	if f.alwaysGrow || f.clicks < f.maxClicks {
		f.clicks++
		f.count += f.growPer
		return true, nil
	}
	return false, nil
}

func (f *fakePager) CardCount(context.Context) (int, error) { return f.count, nil }

func testLoopConfig() LoopConfig {
	return LoopConfig{MaxIterations: 10, StallLimit: 2, Pause: time.Millisecond}
}

func TestRunLoop_TerminatesAtBoundWhenLoadMoreNeverDisappears(t *testing.T) {
	p := &fakePager{alwaysGrow: true, growPer: 5}

	cfg := testLoopConfig()
	count, err := RunLoop(context.Background(), p, cfg, slog.Default())
	if err != nil {
		t.Fatalf("RunLoop: %v", err)
	}
	if p.clicks != cfg.MaxIterations {
		t.Errorf("clicks: got %d, want the hard bound %d", p.clicks, cfg.MaxIterations)
	}
	if count != cfg.MaxIterations*5 {
		t.Errorf("count: got %d, want %d", count, cfg.MaxIterations*5)
	}
}

func TestRunLoop_OneLoadMoreThenStable(t *testing.T) {
	// 0 cards visible, one load-more click reveals 3, nothing after that.
	p := &fakePager{maxClicks: 1, growPer: 3}

	count, err := RunLoop(context.Background(), p, testLoopConfig(), slog.Default())
	if err != nil {
		t.Fatalf("RunLoop: %v", err)
	}
	if count != 3 {
		t.Errorf("count: got %d, want 3", count)
	}
	if p.clicks != 1 {
		t.Errorf("clicks: got %d, want 1", p.clicks)
	}
}

func TestRunLoop_MissingButtonIsNormalTermination(t *testing.T) {
	p := &fakePager{maxClicks: 0, count: 8}

	count, err := RunLoop(context.Background(), p, testLoopConfig(), slog.Default())
	if err != nil {
		t.Fatalf("missing load more must not be an error: %v", err)
	}
	if count != 8 {
		t.Errorf("count: got %d, want 8", count)
	}
}

func TestRunLoop_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakePager{alwaysGrow: true, growPer: 1}
	if _, err := RunLoop(ctx, p, testLoopConfig(), slog.Default()); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestWithRetry_TimeoutThenSuccess(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), slog.Default(), "https://example.test", time.Second, 2*time.Second,
		func(context.Context) error {
			attempts++
			if attempts == 1 {
				return context.DeadlineExceeded
			}
			return nil
		})
	if err != nil {
		t.Fatalf("retry should recover from a first-attempt timeout: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts: got %d, want 2", attempts)
	}
}

func TestWithRetry_BothAttemptsFail(t *testing.T) {
	boom := errors.New("net::ERR_TIMED_OUT")
	attempts := 0
	err := withRetry(context.Background(), slog.Default(), "https://example.test", time.Second, 2*time.Second,
		func(context.Context) error {
			attempts++
			return boom
		})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped attempt error", err)
	}
	if attempts != 2 {
		t.Errorf("attempts: got %d, want exactly 2 (single retry)", attempts)
	}
}
