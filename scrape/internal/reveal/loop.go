package reveal

import (
	"context"
	"log/slog"
	"time"
)

// Pager abstracts the page interactions the reveal loop needs, so the
// termination logic is testable without a browser.
type Pager interface {
	ScrollBottom(ctx context.Context) error
	ClickLoadMore(ctx context.Context) (bool, error)
	CardCount(ctx context.Context) (int, error)
}

// LoopConfig bounds the reveal loop.
type LoopConfig struct {
	MaxIterations int           // hard bound, loop always terminates
	StallLimit    int           // consecutive no-growth iterations before stopping
	Pause         time.Duration // settle time after each interaction
}

func (c *LoopConfig) defaults() {
	if c.MaxIterations <= 0 {
		c.MaxIterations = 25
	}
	if c.StallLimit <= 0 {
		c.StallLimit = 3
	}
	if c.Pause <= 0 {
		c.Pause = 2 * time.Second
	}
}

// RunLoop drives the load-more cycle until the control is gone and the
// card count stops growing, or MaxIterations is reached. A missing
// "Load More" control is the normal terminal condition, not an error.
// Returns the final card count.
func RunLoop(ctx context.Context, p Pager, cfg LoopConfig, logger *slog.Logger) (int, error) {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	prev := 0
	stall := 0

	for i := 0; i < cfg.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return prev, err
		}

		if err := p.ScrollBottom(ctx); err != nil {
			logger.Debug("reveal: scroll failed", "error", err)
		}

		clicked, err := p.ClickLoadMore(ctx)
		if err != nil {
			logger.Warn("reveal: load more click failed", "error", err)
		}
		if clicked {
			logger.Debug("reveal: clicked load more", "iteration", i)
		}

		if err := sleep(ctx, cfg.Pause); err != nil {
			return prev, err
		}

		count, err := p.CardCount(ctx)
		if err != nil {
			logger.Warn("reveal: card count failed", "error", err)
			continue
		}

		if count > prev {
			logger.Debug("reveal: items grew", "count", count, "was", prev)
			prev = count
			stall = 0
			continue
		}

		// No growth: either the control is gone or clicking it yields
		// nothing new. Both are terminal once the stall limit is hit.
		stall++
		if stall >= cfg.StallLimit {
			logger.Debug("reveal: content stabilised", "count", prev, "iterations", i+1)
			return prev, nil
		}
	}

	logger.Debug("reveal: iteration bound reached", "count", prev, "max", cfg.MaxIterations)
	return prev, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
