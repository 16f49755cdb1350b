package pages

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/maltedev/ebay-ui-check/internal/browser"
	"github.com/playwright-community/playwright-go"
)

const (
	SearchInputSelector  = `input[placeholder="Search for anything"]`
	SearchButtonSelector = `button[type="submit"]`
)

var resultsURLPattern = regexp.MustCompile(`/sch/`)

type HomePage struct {
	basePage
	url string
}

func NewHomePage(page playwright.Page, url string, wait time.Duration, logger *slog.Logger) *HomePage {
	if logger == nil {
		logger = slog.Default()
	}
	return &HomePage{
		basePage: newBasePage(page, wait, logger.With("component", "home_page")),
		url:      url,
	}
}

func (h *HomePage) NavigateToHome() error {
	return h.navigate(h.url)
}

// IsLoaded reports whether the search input became visible within the wait.
func (h *HomePage) IsLoaded() bool {
	if err := h.waitFor(SearchInputSelector, playwright.WaitForSelectorStateVisible); err != nil {
		h.logger.Warn("home page did not load", "error", err)
		return false
	}
	h.logger.Info("home page loaded")
	return true
}

// SearchAndOpenResults types term into the search box, submits it and waits
// for the results listing to load.
func (h *HomePage) SearchAndOpenResults(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return ErrEmptySearchTerm
	}

	if err := h.waitFor(SearchInputSelector, playwright.WaitForSelectorStateVisible); err != nil {
		return fmt.Errorf("%w: search input: %v", ErrElementNotFound, err)
	}

	h.logger.Info("searching", "term", term)
	if err := h.page.Locator(SearchInputSelector).First().Fill(term); err != nil {
		return fmt.Errorf("%w: failed to fill search input: %v", ErrElementNotFound, err)
	}

	if err := h.page.Locator(SearchButtonSelector).First().Click(); err != nil {
		return fmt.Errorf("%w: failed to click search button: %v", ErrElementNotFound, err)
	}

	if err := h.page.WaitForURL(resultsURLPattern, playwright.PageWaitForURLOptions{
		Timeout: browser.Milliseconds(h.wait),
	}); err != nil {
		return fmt.Errorf("%w: results page did not open: %v", ErrNavigation, err)
	}

	if err := h.waitForLoad(); err != nil {
		return fmt.Errorf("%w: results page did not load: %v", ErrNavigation, err)
	}

	h.logger.Info("results page opened", "url", h.page.URL())
	return nil
}
