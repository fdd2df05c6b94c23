// Package browser manages the Chrome lifecycle for a scrape run: launch
// (or connect to a remote instance), stealth page creation, resource
// blocking, and guaranteed shutdown. One browser, one tab at a time.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config configures the browser.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headful disables headless mode (useful when debugging selectors).
	Headful bool

	// ResourceBlocking lists resource types to block (images, fonts, media,
	// stylesheets). Blocking images/fonts speeds listing reveals up a lot.
	ResourceBlocking []string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Browser owns the Chrome process and its Rod handle.
type Browser struct {
	cfg     Config
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// Start launches Chrome (or connects to a remote one).
func Start(ctx context.Context, cfg Config) (*Browser, error) {
	cfg.defaults()
	log := cfg.Logger

	var wsURL string
	b := &Browser{cfg: cfg}

	if cfg.RemoteURL != "" {
		wsURL = cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Headless(!cfg.Headful)

		// Anti-detection flags.
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		b.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL, "headful", cfg.Headful)
	}

	rb := rod.New().Context(ctx).ControlURL(wsURL)
	if err := rb.Connect(); err != nil {
		b.cleanup()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	b.browser = rb

	if err := rb.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}

	return b, nil
}

// NewPage opens a stealth tab with resource blocking applied. The page is
// blank; callers navigate it themselves.
func (b *Browser) NewPage(ctx context.Context) (*rod.Page, error) {
	if b.browser == nil {
		return nil, fmt.Errorf("browser: not started")
	}

	page, err := stealth.Page(b.browser)
	if err != nil {
		return nil, fmt.Errorf("browser: create stealth page: %w", err)
	}
	page = page.Context(ctx)

	if len(b.cfg.ResourceBlocking) > 0 {
		if err := applyResourceBlocking(page, b.cfg.ResourceBlocking); err != nil {
			b.cfg.Logger.Warn("browser: resource blocking failed", "error", err)
		}
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width: 1920, Height: 1080, DeviceScaleFactor: 1,
	}); err != nil {
		b.cfg.Logger.Debug("browser: set viewport failed", "error", err)
	}

	return page, nil
}

// FullDOM serialises the page's complete DOM as outer HTML.
func FullDOM(ctx context.Context, page *rod.Page) ([]byte, error) {
	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("browser: get DOM: %w", err)
	}
	return []byte(res.Value.Str()), nil
}

// Close shuts Chrome down. Safe to call on all exit paths.
func (b *Browser) Close() error {
	start := time.Now()
	b.cleanup()
	b.cfg.Logger.Debug("browser: closed", "took", time.Since(start))
	return nil
}

func (b *Browser) cleanup() {
	if b.browser != nil {
		b.browser.Close()
		b.browser = nil
	}
	if b.lnch != nil {
		b.lnch.Cleanup()
		b.lnch = nil
	}
}
