// Package extract implements product field extraction from detail pages.
//
// Two paths, both pure functions over fixture-able inputs:
//   - state:  parse the __NEXT_DATA__ script blob and read well-known key
//     paths. Authoritative when present.
//   - text:   heuristic pattern matching over the rendered page text.
//     Per-field fallback when the blob is absent or incomplete.
//
// Ratings always use the text path: the state blob does not reliably carry
// review data, so the heuristic is the primary source there.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

// stateScriptID is the well-known id of the page-initialisation blob.
const stateScriptID = "__NEXT_DATA__"

// StateProduct is the subset of the state blob's product object we read.
type StateProduct struct {
	SKU      string
	Name     string
	Price    string // decimal as found in the blob, "" when absent
	Stock    product.StockStatus
	Features []string
	Specs    []SpecEntry
}

// SpecEntry is one technical specification row.
type SpecEntry struct {
	Group string `json:"group,omitempty"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StateBlob locates and parses the state script on the page. Numbers are
// decoded as json.Number so price values keep their lexical form.
func StateBlob(pageHTML []byte) (map[string]any, bool) {
	raw, ok := ScriptByID(pageHTML, stateScriptID)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var blob map[string]any
	if err := dec.Decode(&blob); err != nil {
		return nil, false
	}
	return blob, true
}

// ProductFromState walks props.pageProps.productData.product and extracts
// the known fields. Returns false when the product object is absent.
func ProductFromState(blob map[string]any) (*StateProduct, bool) {
	prod, ok := dig(blob, "props", "pageProps", "productData", "product")
	if !ok || len(prod) == 0 {
		return nil, false
	}

	sp := &StateProduct{Stock: product.StockUnknown}

	sp.SKU = str(prod["sku"])
	if sp.Name = str(prod["title"]); sp.Name == "" {
		sp.Name = str(prod["modelName"])
	}

	if price, ok := dig(prod, "price"); ok {
		sp.Price = decimalString(price["finalPrice"])
	}
	if sp.Price == "" {
		sp.Price = decimalString(prod["obsSellingPrice"])
	}

	if stock, ok := dig(prod, "stockStatus"); ok {
		sp.Stock = MapStockCode(str(stock["statusCode"]))
	}

	sp.Features = featuresFromState(prod["keyFeatures"])
	sp.Specs = specsFromState(prod["techSpec"])

	return sp, true
}

// MapStockCode maps the blob's statusCode vocabulary to the enum.
// Unrecognised codes map to unknown, never to a guessed state.
func MapStockCode(code string) product.StockStatus {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "IN_STOCK", "INSTOCK", "IN STOCK", "AVAILABLE":
		return product.StockIn
	case "OUT_OF_STOCK", "OUTOFSTOCK", "OUT OF STOCK", "SOLD_OUT", "SOLDOUT", "UNAVAILABLE", "DISCONTINUED":
		return product.StockOut
	default:
		return product.StockUnknown
	}
}

func featuresFromState(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var features []string
	for _, item := range list {
		switch f := item.(type) {
		case map[string]any:
			text := str(f["feature"])
			if text == "" {
				text = str(f["featureTitle"])
			}
			if text != "" {
				features = append(features, CleanText(text))
			}
		case string:
			if f != "" {
				features = append(features, CleanText(f))
			}
		}
	}
	return features
}

func specsFromState(v any) []SpecEntry {
	tech, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	groups, ok := tech["spec"].([]any)
	if !ok {
		return nil
	}

	var specs []SpecEntry
	for _, g := range groups {
		group, ok := g.(map[string]any)
		if !ok {
			continue
		}
		groupName := str(group["groupName"])
		if groupName == "" {
			groupName = "General"
		}
		items, _ := group["specs"].([]any)
		for _, it := range items {
			item, ok := it.(map[string]any)
			if !ok {
				continue
			}
			name := str(item["name"])
			value := CleanText(str(item["value"]))
			if name != "" && value != "" {
				specs = append(specs, SpecEntry{Group: groupName, Name: name, Value: value})
			}
		}
	}
	return specs
}

// dig descends nested map[string]any keys.
func dig(m map[string]any, keys ...string) (map[string]any, bool) {
	cur := m
	for _, k := range keys {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// decimalString renders a blob value (json.Number or string) as a decimal
// string, preserving the lexical form when it is already valid.
func decimalString(v any) string {
	switch n := v.(type) {
	case json.Number:
		if _, err := decimal.NewFromString(n.String()); err == nil {
			return n.String()
		}
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return ""
		}
		if _, err := decimal.NewFromString(s); err == nil {
			return s
		}
		// Strings like "$1,299.00" occasionally show up in the blob too.
		if d, ok := PriceFromText(s); ok {
			return d.String()
		}
	}
	return ""
}
