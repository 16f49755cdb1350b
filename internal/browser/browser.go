package browser

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	opts    *Options
	logger  *slog.Logger
}

type Options struct {
	Headless       bool
	Timeout        time.Duration
	SlowMo         time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string
	ExtraHeaders   map[string]string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Locale:         "en-US",
		TimezoneID:     "America/New_York",
		ExtraHeaders: map[string]string{
			"Accept-Language": "en-US,en;q=0.9",
		},
	}
}

// New starts the playwright driver, launches Chromium and opens a single
// browser context. Everything started so far is torn down if a later step
// fails.
func New(opts *Options, logger *slog.Logger) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = slog.Default()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if opts.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(opts.UserAgent),
		AcceptDownloads:   playwright.Bool(false),
		JavaScriptEnabled: playwright.Bool(true),
		Locale:            playwright.String(opts.Locale),
		TimezoneId:        playwright.String(opts.TimezoneID),
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
		ExtraHttpHeaders: opts.ExtraHeaders,
	}

	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	b := &Browser{
		pw:      pw,
		browser: browser,
		context: context,
		opts:    opts,
		logger:  logger.With("component", "browser"),
	}
	b.logger.Info("browser launched", "headless", opts.Headless, "slow_mo", opts.SlowMo)

	return b, nil
}

// NewPage opens a page whose default timeout is the configured readiness wait.
func (b *Browser) NewPage() (playwright.Page, error) {
	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}

	page.SetDefaultTimeout(float64(b.opts.Timeout.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(b.opts.Timeout.Milliseconds()))

	return page, nil
}

// Close releases the context, the browser and the driver in that order and
// reports every failure.
func (b *Browser) Close() error {
	var errs []error
	closers := []struct {
		what string
		fn   func() error
	}{
		{"context", func() error {
			if b.context == nil {
				return nil
			}
			return b.context.Close()
		}},
		{"browser", func() error {
			if b.browser == nil {
				return nil
			}
			return b.browser.Close()
		}},
		{"playwright driver", func() error {
			if b.pw == nil {
				return nil
			}
			return b.pw.Stop()
		}},
	}
	for _, c := range closers {
		if err := c.fn(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", c.what, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	b.logger.Info("browser closed")
	return nil
}

// Screenshot writes a full-page PNG of page to path, creating parent
// directories as needed.
func Screenshot(page playwright.Page, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}

	return nil
}

// Milliseconds converts a wait into the float milliseconds playwright expects.
func Milliseconds(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// EnsureInstalled checks that the playwright driver starts and installs the
// driver and Chromium when it does not.
func EnsureInstalled(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	pw, err := playwright.Run()
	if err == nil {
		return pw.Stop()
	}

	logger.Info("playwright not available, installing driver and chromium", "error", err)
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}
