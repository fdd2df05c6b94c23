package store

// schema is the run archive schema, applied on every open (idempotent).
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	query         TEXT NOT NULL,
	category_url  TEXT NOT NULL,
	started_at    INTEGER NOT NULL,
	finished_at   INTEGER,
	product_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS products (
	record_id    TEXT PRIMARY KEY,
	run_id       TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	sku          TEXT NOT NULL,
	name         TEXT,
	url          TEXT NOT NULL,
	price        TEXT,
	stock_status TEXT NOT NULL,
	rating       REAL,
	extra        TEXT,
	scraped_at   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_run ON products(run_id);
CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku);
`
