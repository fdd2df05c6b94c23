// Package product defines the record types shared by the scrape pipeline,
// sinks, and the archive store.
package product

import (
	"errors"
	"time"
)

// StockStatus is the enumerated availability of a product.
type StockStatus string

const (
	StockIn      StockStatus = "in_stock"
	StockOut     StockStatus = "out_of_stock"
	StockUnknown StockStatus = "unknown"
)

// ErrNoSKU is returned when neither extraction path yields a SKU.
// A record without a SKU is never emitted.
var ErrNoSKU = errors.New("product: no SKU on page")

// Record is one extracted product. Immutable after creation.
//
// Price is a decimal carried as a string so that values from the page's
// state blob round-trip without float mangling. Empty string = unknown.
// Rating is nil when no rating marker was found on the page, never 0.
type Record struct {
	SKU         string         `json:"sku"`
	Name        string         `json:"name,omitempty"`
	URL         string         `json:"url"`
	Price       string         `json:"price,omitempty"`
	StockStatus StockStatus    `json:"stock_status"`
	Rating      *float64       `json:"rating"`
	Extra       map[string]any `json:"extra,omitempty"`
	ScrapedAt   time.Time      `json:"scraped_at"`
}

// Validate checks the record invariant: at least a SKU.
func (r *Record) Validate() error {
	if r.SKU == "" {
		return ErrNoSKU
	}
	return nil
}

// ListItem is one entry harvested from a listing page.
type ListItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
