package store

import (
	"context"
	"testing"
	"time"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

func TestRunRoundTrip(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()

	runID, err := s.BeginRun(ctx, "oled tvs", "https://www.lg.com/us/oled-tvs")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	rating := 4.6
	recs := []product.Record{
		{
			SKU:         "OLED65C4PUA",
			Name:        "LG OLED evo C4 65",
			URL:         "https://www.lg.com/us/tvs/lg-oled65c4pua",
			Price:       "1299.99",
			StockStatus: product.StockIn,
			Rating:      &rating,
			Extra:       map[string]any{"key_features": []any{"144Hz refresh rate"}},
			ScrapedAt:   time.Now().UTC().Truncate(time.Second),
		},
		{
			SKU:         "OLED77G4WUA",
			URL:         "https://www.lg.com/us/tvs/lg-oled77g4wua",
			StockStatus: product.StockUnknown,
			ScrapedAt:   time.Now().UTC().Truncate(time.Second),
		},
	}

	for i := range recs {
		if err := s.InsertRecord(ctx, runID, &recs[i]); err != nil {
			t.Fatalf("InsertRecord[%d]: %v", i, err)
		}
	}
	if err := s.FinishRun(ctx, runID, len(recs)); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := s.RecordsByRun(ctx, runID)
	if err != nil {
		t.Fatalf("RecordsByRun: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records: got %d, want 2", len(got))
	}

	if got[0].SKU != "OLED65C4PUA" || got[0].Price != "1299.99" {
		t.Errorf("record 0: %+v", got[0])
	}
	if got[0].Rating == nil || *got[0].Rating != 4.6 {
		t.Errorf("record 0 rating: %v", got[0].Rating)
	}
	if got[0].Extra["key_features"] == nil {
		t.Error("record 0 extra lost")
	}

	// Absent rating stays absent, not zero.
	if got[1].Rating != nil {
		t.Errorf("record 1 rating: got %v, want nil", *got[1].Rating)
	}
	if got[1].StockStatus != product.StockUnknown {
		t.Errorf("record 1 stock: got %q", got[1].StockStatus)
	}
}

func TestRecordsByRun_Empty(t *testing.T) {
	s := OpenMemory(t)
	recs, err := s.RecordsByRun(context.Background(), "run_missing")
	if err != nil {
		t.Fatalf("RecordsByRun: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("records: got %d, want 0", len(recs))
	}
}
