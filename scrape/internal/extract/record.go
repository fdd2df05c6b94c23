package extract

import (
	"time"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

// FromPage builds a Record from a product detail page's HTML.
//
// Field resolution order: state blob first (authoritative), then per-field
// text fallback. Rating always comes from the text heuristic. A page that
// yields no SKU returns product.ErrNoSKU and the record is not emitted.
func FromPage(pageHTML []byte, pageURL string) (*product.Record, error) {
	rec := &product.Record{
		URL:         pageURL,
		StockStatus: product.StockUnknown,
		ScrapedAt:   time.Now().UTC(),
	}

	if blob, ok := StateBlob(pageHTML); ok {
		if sp, ok := ProductFromState(blob); ok {
			rec.SKU = sp.SKU
			rec.Name = sp.Name
			rec.Price = sp.Price
			rec.StockStatus = sp.Stock
			if len(sp.Features) > 0 || len(sp.Specs) > 0 {
				rec.Extra = map[string]any{}
				if len(sp.Features) > 0 {
					rec.Extra["key_features"] = sp.Features
				}
				if len(sp.Specs) > 0 {
					rec.Extra["specifications"] = sp.Specs
				}
			}
		}
	}

	text := VisibleText(pageHTML)

	if rec.Price == "" {
		if d, ok := PriceFromText(text); ok {
			rec.Price = d.String()
		}
	}
	if rec.StockStatus == product.StockUnknown {
		rec.StockStatus = StockFromText(text)
	}
	if v, ok := RatingFromText(text); ok {
		rec.Rating = &v
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}
