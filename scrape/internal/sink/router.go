package sink

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

// Router fans records out to all configured sinks. One sink error does
// not block the others; errors are logged and the first is returned.
type Router struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewRouter creates a fan-out router delivering to all sinks.
func NewRouter(logger *slog.Logger, sinks ...Sink) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{sinks: sinks, logger: logger}
}

func (r *Router) Write(ctx context.Context, rec *product.Record) error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Write(ctx, rec); err != nil {
			r.logger.Warn("sink: write failed", "sku", rec.SKU, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Router) Close() error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			r.logger.Warn("sink: close failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
