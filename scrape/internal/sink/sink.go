// Package sink defines output backends for extracted product records.
package sink

import (
	"context"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

// Sink is the output interface. Implementations deliver records to
// different backends (stdout, JSON file, SQLite archive).
type Sink interface {
	Write(ctx context.Context, rec *product.Record) error
	Close() error
}
