package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/hazyhaar/lgshelf/scrape/internal/store"
	"github.com/hazyhaar/lgshelf/scrape/product"
)

// Archive persists records into the SQLite run archive.
type Archive struct {
	mu    sync.Mutex
	st    *store.Store
	runID string
	count int
}

// NewArchive opens the archive at dbPath and begins a run.
func NewArchive(ctx context.Context, dbPath, query, categoryURL string) (*Archive, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	runID, err := st.BeginRun(ctx, query, categoryURL)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &Archive{st: st, runID: runID}, nil
}

// RunID returns the archive run identifier.
func (a *Archive) RunID() string { return a.runID }

func (a *Archive) Write(ctx context.Context, rec *product.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.st.InsertRecord(ctx, a.runID, rec); err != nil {
		return err
	}
	a.count++
	return nil
}

// Close stamps the run and closes the database.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.st.FinishRun(context.Background(), a.runID, a.count); err != nil {
		a.st.Close()
		return fmt.Errorf("sink: finish run: %w", err)
	}
	return a.st.Close()
}
