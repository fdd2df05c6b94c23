// Package store archives scrape runs and product records in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

// Store is the archive database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the archive at path.
func Open(path string) (*Store, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// newID returns a prefixed UUIDv7 (time-sortable).
func newID(prefix string) string {
	return prefix + uuid.Must(uuid.NewV7()).String()
}

// BeginRun records the start of a scrape run and returns its ID.
func (s *Store) BeginRun(ctx context.Context, query, categoryURL string) (string, error) {
	runID := newID("run_")
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO runs (run_id, query, category_url, started_at)
		VALUES (?,?,?,?)`,
		runID, query, categoryURL, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("store: begin run: %w", err)
	}
	return runID, nil
}

// FinishRun stamps a run's end time and final product count.
func (s *Store) FinishRun(ctx context.Context, runID string, productCount int) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, product_count = ? WHERE run_id = ?`,
		time.Now().Unix(), productCount, runID)
	if err != nil {
		return fmt.Errorf("store: finish run: %w", err)
	}
	return nil
}

// InsertRecord archives one product record under a run.
func (s *Store) InsertRecord(ctx context.Context, runID string, rec *product.Record) error {
	var extra []byte
	if len(rec.Extra) > 0 {
		var err error
		extra, err = json.Marshal(rec.Extra)
		if err != nil {
			return fmt.Errorf("store: marshal extra: %w", err)
		}
	}

	var rating any
	if rec.Rating != nil {
		rating = *rec.Rating
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO products (record_id, run_id, sku, name, url, price, stock_status, rating, extra, scraped_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		newID("rec_"), runID, rec.SKU, rec.Name, rec.URL, rec.Price,
		string(rec.StockStatus), rating, nullableText(extra), rec.ScrapedAt.Unix())
	if err != nil {
		return fmt.Errorf("store: insert record: %w", err)
	}
	return nil
}

// RecordsByRun loads the archived records of one run, insertion order.
func (s *Store) RecordsByRun(ctx context.Context, runID string) ([]product.Record, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT sku, name, url, price, stock_status, rating, extra, scraped_at
		FROM products WHERE run_id = ? ORDER BY record_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: query records: %w", err)
	}
	defer rows.Close()

	var recs []product.Record
	for rows.Next() {
		var rec product.Record
		var name, price, extra sql.NullString
		var rating sql.NullFloat64
		var scrapedAt int64
		var stock string

		if err := rows.Scan(&rec.SKU, &name, &rec.URL, &price, &stock, &rating, &extra, &scrapedAt); err != nil {
			return nil, fmt.Errorf("store: scan record: %w", err)
		}
		rec.Name = name.String
		rec.Price = price.String
		rec.StockStatus = product.StockStatus(stock)
		if rating.Valid {
			v := rating.Float64
			rec.Rating = &v
		}
		if extra.Valid && extra.String != "" {
			if err := json.Unmarshal([]byte(extra.String), &rec.Extra); err != nil {
				return nil, fmt.Errorf("store: unmarshal extra: %w", err)
			}
		}
		rec.ScrapedAt = time.Unix(scrapedAt, 0).UTC()
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func nullableText(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
