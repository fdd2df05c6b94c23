// Package scrape orchestrates one product-listing scrape: resolve the
// category, reveal the full listing, visit each product page sequentially,
// and emit records to the configured sinks.
//
// Single browser, single tab, no parallel fetches. Per-field extraction
// misses become unknown values; a failed product page is skipped and
// logged; only an unreachable listing page is fatal.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/lgshelf/scrape/catalog"
	"github.com/hazyhaar/lgshelf/scrape/internal/browser"
	"github.com/hazyhaar/lgshelf/scrape/internal/config"
	"github.com/hazyhaar/lgshelf/scrape/internal/extract"
	"github.com/hazyhaar/lgshelf/scrape/internal/reveal"
	"github.com/hazyhaar/lgshelf/scrape/internal/sink"
	"github.com/hazyhaar/lgshelf/scrape/product"
)

// ErrListingUnreachable marks the one fatal failure mode: the listing
// page could not be reached even after the navigation retry.
var ErrListingUnreachable = errors.New("scrape: listing page unreachable")

// Summary reports what a run did.
type Summary struct {
	Query       string `json:"query"`
	CategoryURL string `json:"category_url"`
	Known       bool   `json:"known_category"`
	Listed      int    `json:"listed"`
	Extracted   int    `json:"extracted"`
	Skipped     int    `json:"skipped"`
	OutputFile  string `json:"output_file,omitempty"`
	RunID       string `json:"run_id,omitempty"`
}

// Scraper runs listing scrapes. Create one per process.
type Scraper struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Scraper from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Scraper {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{cfg: cfg, logger: logger}
}

// Run scrapes the category matching query. The browser is closed on all
// exit paths.
func (s *Scraper) Run(ctx context.Context, query string) (*Summary, error) {
	b, err := browser.Start(ctx, browser.Config{
		RemoteURL:        s.cfg.Browser.Remote,
		Headful:          s.cfg.Browser.Headful,
		ResourceBlocking: s.cfg.Browser.ResourceBlocking,
		Logger:           s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("scrape: start browser: %w", err)
	}
	defer b.Close()

	page, err := b.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("scrape: open tab: %w", err)
	}
	defer page.Close()

	cat := s.discoverCatalog(ctx, page)
	target, known := cat.Resolve(query)
	if !known {
		s.logger.Warn("scrape: no category match, trying constructed URL", "query", query, "url", target)
	} else {
		s.logger.Info("scrape: resolved category", "query", query, "url", target)
	}

	summary := &Summary{Query: query, CategoryURL: target, Known: known}

	rev := reveal.New(reveal.Config{
		NavTimeout:      s.cfg.Reveal.NavTimeout,
		RetryNavTimeout: s.cfg.Reveal.RetryNavTimeout,
		Loop: reveal.LoopConfig{
			MaxIterations: s.cfg.Reveal.MaxIterations,
			StallLimit:    s.cfg.Reveal.StallLimit,
			Pause:         s.cfg.Reveal.Pause,
		},
	}, s.logger)

	items, err := rev.Reveal(ctx, page, target)
	if err != nil {
		return summary, fmt.Errorf("%w: %w", ErrListingUnreachable, err)
	}
	summary.Listed = len(items)
	s.logger.Info("scrape: listing revealed", "items", len(items))

	out, err := s.buildSinks(ctx, query, target, summary)
	if err != nil {
		return summary, fmt.Errorf("scrape: sinks: %w", err)
	}
	defer func() {
		if err := out.router.Close(); err != nil {
			s.logger.Warn("scrape: sink close", "error", err)
		}
		summary.OutputFile = out.filePath()
	}()

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rec, err := s.visitProduct(ctx, page, item)
		if err != nil {
			summary.Skipped++
			s.logger.Warn("scrape: product skipped", "url", item.URL, "error", err)
			continue
		}

		if err := out.router.Write(ctx, rec); err != nil {
			s.logger.Warn("scrape: sink write", "sku", rec.SKU, "error", err)
		}
		summary.Extracted++

		if err := sleep(ctx, s.cfg.Product.Pause); err != nil {
			return summary, err
		}
	}

	s.logger.Info("scrape: run complete",
		"listed", summary.Listed, "extracted", summary.Extracted, "skipped", summary.Skipped)
	return summary, nil
}

// visitProduct loads one detail page and extracts its record.
func (s *Scraper) visitProduct(ctx context.Context, page *rod.Page, item product.ListItem) (*product.Record, error) {
	if err := reveal.Navigate(ctx, s.logger, page, item.URL,
		s.cfg.Product.NavTimeout, s.cfg.Product.RetryNavTimeout); err != nil {
		return nil, err
	}

	s.waitForRating(ctx, page)

	pageHTML, err := browser.FullDOM(ctx, page)
	if err != nil {
		return nil, err
	}

	rec, err := extract.FromPage(pageHTML, item.URL)
	if err != nil {
		return nil, err
	}
	if rec.Name == "" {
		rec.Name = item.Name
	}
	return rec, nil
}

// waitForRating gives the review widget a few seconds to attach. Missing
// reviews are normal; this only narrows the race, it never fails.
func (s *Scraper) waitForRating(ctx context.Context, page *rod.Page) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		res, err := page.Context(ctx).Eval(`() =>
			document.querySelector('.bv_avgRating_component_container, .bv_offscreen_text') !== null`)
		if err != nil || res.Value.Bool() {
			return
		}
		if sleep(ctx, 500*time.Millisecond) != nil {
			return
		}
	}
}

// discoverCatalog harvests category links from the homepage. Failure is
// soft: the built-in seed categories take over.
func (s *Scraper) discoverCatalog(ctx context.Context, page *rod.Page) *catalog.Catalog {
	err := reveal.Navigate(ctx, s.logger, page, s.cfg.BaseURL,
		s.cfg.Reveal.NavTimeout, s.cfg.Reveal.RetryNavTimeout)
	if err != nil {
		s.logger.Warn("scrape: category discovery failed, using seeds", "error", err)
		return catalog.New(s.cfg.BaseURL, nil)
	}

	res, err := page.Context(ctx).Eval(`() =>
		Array.from(document.querySelectorAll('a'))
			.map(a => ({text: (a.innerText || '').trim(), href: a.href}))
			.filter(l => l.text.length > 0 && l.href.length > 0)`)
	if err != nil {
		s.logger.Warn("scrape: link harvest failed, using seeds", "error", err)
		return catalog.New(s.cfg.BaseURL, nil)
	}

	var links []catalog.Link
	for _, v := range res.Value.Arr() {
		links = append(links, catalog.Link{
			Text: v.Get("text").Str(),
			Href: v.Get("href").Str(),
		})
	}

	cat := catalog.New(s.cfg.BaseURL, links)
	s.logger.Info("scrape: discovered categories", "count", cat.Len())
	return cat
}

// runSinks bundles the router with the optional file sink for path lookup.
type runSinks struct {
	router *sink.Router
	file   *sink.File
}

func (r *runSinks) filePath() string {
	if r.file == nil {
		return ""
	}
	return r.file.Path()
}

func (s *Scraper) buildSinks(ctx context.Context, query, categoryURL string, summary *Summary) (*runSinks, error) {
	var sinks []sink.Sink
	rs := &runSinks{}

	if s.cfg.Output.Stdout {
		sinks = append(sinks, sink.NewStdout(nil))
	}
	if s.cfg.Output.Dir != "" {
		rs.file = sink.NewFile(s.cfg.Output.Dir, catalog.Slug(query))
		sinks = append(sinks, rs.file)
	}
	if s.cfg.Output.DBPath != "" {
		a, err := sink.NewArchive(ctx, s.cfg.Output.DBPath, query, categoryURL)
		if err != nil {
			return nil, err
		}
		summary.RunID = a.RunID()
		sinks = append(sinks, a)
	}
	if len(sinks) == 0 {
		sinks = append(sinks, sink.NewStdout(nil))
	}

	rs.router = sink.NewRouter(s.logger, sinks...)
	return rs, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
