// Package reveal expands a listing page until every item is visible and
// harvests the product URLs.
//
// The browser side is a thin Rod adapter (scroll, click, count via Eval);
// termination logic (loop.go) and card harvesting (listing.go) are pure
// and tested without a browser.
package reveal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

// Config controls navigation and loop bounds.
type Config struct {
	NavTimeout      time.Duration // first navigation attempt
	RetryNavTimeout time.Duration // single retry, more generous
	Loop            LoopConfig
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 60 * time.Second
	}
	if c.RetryNavTimeout <= 0 {
		c.RetryNavTimeout = 90 * time.Second
	}
}

// Revealer drives the view-all/load-more interactions on one listing page.
type Revealer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Revealer.
func New(cfg Config, logger *slog.Logger) *Revealer {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Revealer{cfg: cfg, logger: logger}
}

// Reveal navigates to the listing, expands it exhaustively, and returns
// the harvested items. Navigation failure after the retry is a hard error
// for this listing.
func (r *Revealer) Reveal(ctx context.Context, page *rod.Page, listingURL string) ([]product.ListItem, error) {
	if err := Navigate(ctx, r.logger, page, listingURL, r.cfg.NavTimeout, r.cfg.RetryNavTimeout); err != nil {
		return nil, fmt.Errorf("reveal: navigate %s: %w", listingURL, err)
	}

	p := &rodPager{page: page, logger: r.logger}

	p.acceptCookies(ctx)
	if p.toggleViewAll(ctx) {
		r.logger.Info("reveal: activated view all toggle")
		sleep(ctx, r.cfg.Loop.Pause)
	}

	count, err := RunLoop(ctx, p, r.cfg.Loop, r.logger)
	if err != nil {
		return nil, fmt.Errorf("reveal: loop: %w", err)
	}
	r.logger.Info("reveal: listing fully expanded", "cards", count)

	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("reveal: get DOM: %w", err)
	}

	items, err := ParseListing([]byte(res.Value.Str()), listingURL)
	if err != nil {
		return nil, fmt.Errorf("reveal: parse listing: %w", err)
	}
	return items, nil
}

// Navigate loads a URL with a content-loaded wait. A failed first attempt
// is retried once with the longer timeout before surfacing a hard error.
func Navigate(ctx context.Context, logger *slog.Logger, page *rod.Page, pageURL string, timeout, retryTimeout time.Duration) error {
	return withRetry(ctx, logger, pageURL, timeout, retryTimeout, func(ctx context.Context) error {
		p := page.Context(ctx)
		if err := p.Navigate(pageURL); err != nil {
			return err
		}
		return p.WaitLoad()
	})
}

// withRetry runs attempt with the first timeout, then once more with the
// retry timeout. Factored out so the retry contract is testable.
func withRetry(ctx context.Context, logger *slog.Logger, pageURL string, timeout, retryTimeout time.Duration, attempt func(context.Context) error) error {
	run := func(d time.Duration) error {
		actx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return attempt(actx)
	}

	err := run(timeout)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	logger.Warn("reveal: navigation failed, retrying with longer timeout",
		"url", pageURL, "error", err, "retry_timeout", retryTimeout)

	if err := run(retryTimeout); err != nil {
		return fmt.Errorf("after retry: %w", err)
	}
	return nil
}

// rodPager implements Pager against a live Rod page via Eval.
type rodPager struct {
	page   *rod.Page
	logger *slog.Logger
}

func (p *rodPager) ScrollBottom(ctx context.Context) error {
	_, err := p.page.Context(ctx).Eval(`() => { window.scrollTo(0, document.body.scrollHeight); }`)
	return err
}

func (p *rodPager) ClickLoadMore(ctx context.Context) (bool, error) {
	res, err := p.page.Context(ctx).Eval(`() => {
		const btn = [...document.querySelectorAll('button')]
			.find(b => /load\s*more/i.test(b.innerText || ''));
		if (!btn) return false;
		btn.scrollIntoView({block: 'center'});
		btn.click();
		return true;
	}`)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (p *rodPager) CardCount(ctx context.Context) (int, error) {
	res, err := p.page.Context(ctx).Eval(`() => {
		let n = document.querySelectorAll('div[class*="mh-product-card"]').length;
		if (n === 0) {
			n = [...document.querySelectorAll('div[role="group"]')]
				.filter(d => d.getAttribute('aria-label')).length;
		}
		return n;
	}`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// acceptCookies clicks a consent banner if one is present. Best effort.
func (p *rodPager) acceptCookies(ctx context.Context) {
	res, err := p.page.Context(ctx).Eval(`() => {
		const el = [...document.querySelectorAll('button, a')]
			.find(e => /accept all/i.test(e.innerText || ''));
		if (!el) return false;
		el.click();
		return true;
	}`)
	if err == nil && res.Value.Bool() {
		p.logger.Debug("reveal: accepted cookie banner")
	}
}

// toggleViewAll activates the "View All" control when present and not
// already on. Returns true if it changed page state.
func (p *rodPager) toggleViewAll(ctx context.Context) bool {
	res, err := p.page.Context(ctx).Eval(`() => {
		const input = document.querySelector('input[type="checkbox"][aria-label*="View All"]');
		if (input) {
			if (input.checked) return false;
			input.click();
			return true;
		}
		const el = [...document.querySelectorAll('button, label, a, span')]
			.find(e => /view all/i.test(e.innerText || ''));
		if (!el) return false;
		el.click();
		return true;
	}`)
	if err != nil {
		p.logger.Debug("reveal: view all check failed", "error", err)
		return false
	}
	return res.Value.Bool()
}
