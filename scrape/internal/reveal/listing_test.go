package reveal

import (
	"testing"
)

var listingHTML = []byte(`<!DOCTYPE html>
<html><body>
<div class="plp-grid">
  <div class="mh-product-card card-1" aria-label="LG OLED evo C4 65&quot;">
    <a href="/us/tvs/lg-oled65c4pua"><img src="c4.webp"></a>
    <h3>LG OLED evo C4 65"</h3>
  </div>
  <a href="/us/tvs/lg-oled55c4pua">
    <div class="mh-product-card card-2" aria-label="LG OLED evo C4 55&quot;">
      <h3>LG OLED evo C4 55"</h3>
    </div>
  </a>
  <div class="mh-product-card card-3">
    <h3>LG OLED evo G4 77"</h3>
    <a href="https://www.lg.com/us/tvs/lg-oled77g4wua">Shop</a>
  </div>
  <div class="mh-product-card card-dup" aria-label="LG OLED evo C4 65&quot;">
    <a href="/us/tvs/lg-oled65c4pua">Duplicate entry</a>
  </div>
</div>
</body></html>`)

func TestParseListing(t *testing.T) {
	items, err := ParseListing(listingHTML, "https://www.lg.com/us/oled-tvs")
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items: got %d, want 3 (deduplicated): %+v", len(items), items)
	}

	if items[0].URL != "https://www.lg.com/us/tvs/lg-oled65c4pua" {
		t.Errorf("items[0].URL: got %q", items[0].URL)
	}
	if items[0].Name != `LG OLED evo C4 65"` {
		t.Errorf("items[0].Name: got %q", items[0].Name)
	}

	// Card wrapped in an ancestor anchor.
	if items[1].URL != "https://www.lg.com/us/tvs/lg-oled55c4pua" {
		t.Errorf("items[1].URL: got %q", items[1].URL)
	}

	// Name from heading when aria-label is missing; absolute href kept.
	if items[2].Name != `LG OLED evo G4 77"` {
		t.Errorf("items[2].Name: got %q", items[2].Name)
	}
	if items[2].URL != "https://www.lg.com/us/tvs/lg-oled77g4wua" {
		t.Errorf("items[2].URL: got %q", items[2].URL)
	}
}

func TestParseListing_FallbackSelector(t *testing.T) {
	page := []byte(`<html><body>
<div role="group" aria-label="LG Refrigerator LRFVS3006S">
  <a href="/us/refrigerators/lg-lrfvs3006s">Shop now</a>
</div>
<div role="group">ignored, no aria-label</div>
</body></html>`)

	items, err := ParseListing(page, "https://www.lg.com/us/refrigerators")
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}
	if items[0].Name != "LG Refrigerator LRFVS3006S" {
		t.Errorf("Name: got %q", items[0].Name)
	}
}

func TestParseListing_NoCards(t *testing.T) {
	items, err := ParseListing([]byte(`<html><body><p>Nothing here</p></body></html>`), "https://www.lg.com/us/")
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items: got %d, want 0", len(items))
	}
}
