package extract

import (
	"testing"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

var productPageHTML = []byte(`<!DOCTYPE html>
<html>
<head><title>LG OLED evo C4 65"</title></head>
<body>
<h1>LG OLED evo C4 65 inch 4K Smart TV</h1>
<script id="__NEXT_DATA__" type="application/json">
{
  "props": {
    "pageProps": {
      "productData": {
        "product": {
          "sku": "OLED65C4PUA",
          "title": "LG OLED evo C4 65 inch 4K Smart TV",
          "modelName": "OLED65C4",
          "price": {"finalPrice": 1299.99, "msrp": 1799.99},
          "stockStatus": {"statusCode": "IN_STOCK"},
          "keyFeatures": [
            {"feature": "α9 AI Processor Gen7™"},
            {"featureTitle": "Dolby Vision® and Dolby Atmos®"},
            "144Hz refresh rate"
          ],
          "techSpec": {
            "spec": [
              {
                "groupName": "Display",
                "specs": [
                  {"name": "Resolution", "value": "3840 x 2160"},
                  {"name": "Refresh Rate", "value": "144Hz¹"}
                ]
              }
            ]
          }
        }
      }
    }
  }
}
</script>
<div class="bv_avgRating_component_container">4.6</div>
<span class="bv_offscreen_text">4.6 out of 5 stars</span>
</body>
</html>`)

func TestProductFromState(t *testing.T) {
	blob, ok := StateBlob(productPageHTML)
	if !ok {
		t.Fatal("StateBlob should find __NEXT_DATA__")
	}
	sp, ok := ProductFromState(blob)
	if !ok {
		t.Fatal("ProductFromState should find the product object")
	}

	if sp.SKU != "OLED65C4PUA" {
		t.Errorf("SKU: got %q, want %q", sp.SKU, "OLED65C4PUA")
	}
	if sp.Name != "LG OLED evo C4 65 inch 4K Smart TV" {
		t.Errorf("Name: got %q", sp.Name)
	}
	// Price must round-trip the blob's lexical form exactly.
	if sp.Price != "1299.99" {
		t.Errorf("Price: got %q, want %q", sp.Price, "1299.99")
	}
	if sp.Stock != product.StockIn {
		t.Errorf("Stock: got %q, want %q", sp.Stock, product.StockIn)
	}
	if len(sp.Features) != 3 {
		t.Fatalf("Features: got %d, want 3: %v", len(sp.Features), sp.Features)
	}
	// CleanText must have stripped the trademark and registered marks.
	if sp.Features[0] != "α9 AI Processor Gen7" {
		t.Errorf("Features[0]: got %q", sp.Features[0])
	}
	if len(sp.Specs) != 2 {
		t.Fatalf("Specs: got %d, want 2", len(sp.Specs))
	}
	if sp.Specs[1].Value != "144Hz" {
		t.Errorf("Specs[1].Value: got %q, want %q (superscript stripped)", sp.Specs[1].Value, "144Hz")
	}
}

func TestStateBlob_Malformed(t *testing.T) {
	page := []byte(`<html><body>
<script id="__NEXT_DATA__">{"props": {truncated</script>
</body></html>`)
	if _, ok := StateBlob(page); ok {
		t.Error("malformed blob should not parse")
	}
}

func TestStateBlob_Absent(t *testing.T) {
	page := []byte(`<html><body><p>No state here</p></body></html>`)
	if _, ok := StateBlob(page); ok {
		t.Error("page without blob should return false")
	}
}

func TestProductFromState_ObsSellingPriceFallback(t *testing.T) {
	page := []byte(`<html><body><script id="__NEXT_DATA__">
{"props":{"pageProps":{"productData":{"product":{
  "sku":"WM4000HWA","obsSellingPrice":949.00,
  "stockStatus":{"statusCode":"OUT_OF_STOCK"}}}}}}
</script></body></html>`)

	blob, ok := StateBlob(page)
	if !ok {
		t.Fatal("StateBlob failed")
	}
	sp, ok := ProductFromState(blob)
	if !ok {
		t.Fatal("ProductFromState failed")
	}
	if sp.Price != "949.00" {
		t.Errorf("Price: got %q, want %q", sp.Price, "949.00")
	}
	if sp.Stock != product.StockOut {
		t.Errorf("Stock: got %q, want %q", sp.Stock, product.StockOut)
	}
}

func TestMapStockCode(t *testing.T) {
	cases := []struct {
		code string
		want product.StockStatus
	}{
		{"IN_STOCK", product.StockIn},
		{"instock", product.StockIn},
		{"OUT_OF_STOCK", product.StockOut},
		{"SOLD_OUT", product.StockOut},
		{"BACKORDER_SOON", product.StockUnknown},
		{"", product.StockUnknown},
	}
	for _, c := range cases {
		if got := MapStockCode(c.code); got != c.want {
			t.Errorf("MapStockCode(%q): got %q, want %q", c.code, got, c.want)
		}
	}
}
