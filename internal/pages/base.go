package pages

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/maltedev/ebay-ui-check/internal/browser"
	"github.com/playwright-community/playwright-go"
)

// basePage holds the session handle and the readiness wait shared by every
// page helper.
type basePage struct {
	page   playwright.Page
	wait   time.Duration
	logger *slog.Logger
}

func newBasePage(page playwright.Page, wait time.Duration, logger *slog.Logger) basePage {
	if logger == nil {
		logger = slog.Default()
	}
	return basePage{page: page, wait: wait, logger: logger}
}

func (b *basePage) navigate(url string) error {
	b.logger.Info("navigating", "url", url)

	if _, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   browser.Milliseconds(b.wait),
	}); err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", ErrNavigation, url, err)
	}

	return nil
}

func (b *basePage) waitFor(selector string, state *playwright.WaitForSelectorState) error {
	b.logger.Debug("waiting for element", "selector", selector, "timeout", b.wait)

	return b.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: browser.Milliseconds(b.wait),
	})
}

func (b *basePage) waitForLoad() error {
	return b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: browser.Milliseconds(b.wait),
	})
}

func (b *basePage) content() (string, error) {
	html, err := b.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}
