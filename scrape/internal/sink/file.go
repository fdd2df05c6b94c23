package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

// File collects records and writes them as one pretty-printed JSON array
// on Close, named lg_<slug>_<timestamp>.json under the output directory.
type File struct {
	mu      sync.Mutex
	dir     string
	slug    string
	records []*product.Record
	written string // final path, set on Close
}

// NewFile creates a File sink writing into dir.
func NewFile(dir, slug string) *File {
	return &File{dir: dir, slug: slug}
}

func (f *File) Write(_ context.Context, rec *product.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

// Close flushes the collected records to disk. No records, no file.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.records) == 0 {
		return nil
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("sink: mkdir %s: %w", f.dir, err)
	}

	name := fmt.Sprintf("lg_%s_%s.json", f.slug, time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(f.dir, name)

	data, err := json.MarshalIndent(f.records, "", "  ")
	if err != nil {
		return fmt.Errorf("sink: marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("sink: write %s: %w", path, err)
	}

	f.written = path
	return nil
}

// Path returns the file written by Close, or "" if nothing was written.
func (f *File) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}
