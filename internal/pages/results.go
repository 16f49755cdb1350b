package pages

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/maltedev/ebay-ui-check/internal/browser"
	"github.com/maltedev/ebay-ui-check/internal/parser"
	"github.com/playwright-community/playwright-go"
)

const TransmissionSectionText = "Transmission"

type SearchResultsPage struct {
	basePage
	parser    *parser.ResultsParser
	lastCount int
}

func NewSearchResultsPage(page playwright.Page, wait time.Duration, logger *slog.Logger) *SearchResultsPage {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchResultsPage{
		basePage: newBasePage(page, wait, logger.With("component", "search_results_page")),
		parser:   parser.NewResultsParser(),
	}
}

// ValidateResultsAndCount waits for the results list and returns the number
// of rendered result rows. It never returns zero: an empty list yields
// ErrNoResults.
func (s *SearchResultsPage) ValidateResultsAndCount() (int, error) {
	if err := s.waitFor(parser.ResultListSelector, playwright.WaitForSelectorStateAttached); err != nil {
		return 0, fmt.Errorf("%w: results list did not render: %v", ErrNavigation, err)
	}

	count, err := s.countRows()
	if err != nil {
		return 0, err
	}

	if count == 0 {
		return 0, ErrNoResults
	}

	s.lastCount = count
	s.logger.Info("search results displayed", "count", count)
	return count, nil
}

// ApplyTransmissionAndGetCount activates the transmission filter option
// labelled filterValue and returns the row count of the re-rendered list.
// Zero is a valid outcome; a missing control is ErrElementNotFound.
func (s *SearchResultsPage) ApplyTransmissionAndGetCount(filterValue string) (int, error) {
	s.logger.Info("applying transmission filter", "value", filterValue)

	if err := s.waitFor(parser.FilterPanelSelector, playwright.WaitForSelectorStateVisible); err != nil {
		return 0, fmt.Errorf("%w: filter panel: %v", ErrElementNotFound, err)
	}
	panel := s.page.Locator(parser.FilterPanelSelector)

	option := panel.GetByText(filterValue).First()
	if visible, err := option.IsVisible(); err != nil || !visible {
		s.expandSection(panel)
	}

	n, err := option.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to look up filter option %q: %w", filterValue, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: transmission option %q", ErrElementNotFound, filterValue)
	}

	before := s.page.URL()
	if err := option.ScrollIntoViewIfNeeded(); err != nil {
		s.logger.Debug("could not scroll to filter option", "error", err)
	}
	if err := option.Click(); err != nil {
		return 0, fmt.Errorf("%w: failed to click transmission option %q: %v", ErrElementNotFound, filterValue, err)
	}

	// Filters that re-render in place, or an option that was already active,
	// leave the URL alone; the list wait below decides readiness then.
	if err := s.page.WaitForURL(func(url string) bool { return url != before }, playwright.PageWaitForURLOptions{
		Timeout: browser.Milliseconds(s.wait),
	}); err != nil {
		if s.page.URL() != before {
			return 0, fmt.Errorf("%w: filtered results did not load: %v", ErrNavigation, err)
		}
		s.logger.Debug("filter did not change the URL, waiting for the list in place", "error", err)
	}

	if err := s.waitForLoad(); err != nil {
		return 0, fmt.Errorf("%w: filtered results did not load: %v", ErrNavigation, err)
	}

	if err := s.waitFor(parser.ResultListSelector, playwright.WaitForSelectorStateAttached); err != nil {
		return 0, fmt.Errorf("%w: filtered results list did not render: %v", ErrNavigation, err)
	}

	count, err := s.countRows()
	if err != nil {
		return 0, err
	}

	if count > s.lastCount {
		s.logger.Warn("filtered count exceeds unfiltered count", "filtered", count, "unfiltered", s.lastCount)
	}

	s.logger.Info("filter applied", "value", filterValue, "count", count)
	return count, nil
}

// expandSection opens the collapsed transmission group when the page
// renders one. Its absence is not an error.
func (s *SearchResultsPage) expandSection(panel playwright.Locator) {
	section := panel.GetByText(TransmissionSectionText).First()

	if n, err := section.Count(); err != nil || n == 0 {
		s.logger.Debug("transmission section header not present")
		return
	}

	if err := section.Click(); err != nil {
		s.logger.Warn("could not expand transmission section", "error", err)
		return
	}
	s.logger.Debug("expanded transmission section")
}

// TotalResults returns the total advertised in the results heading, which
// is usually larger than the number of rows on the first page.
func (s *SearchResultsPage) TotalResults() (int, error) {
	html, err := s.content()
	if err != nil {
		return 0, err
	}
	return s.parser.ParseHeadingCount(html)
}

func (s *SearchResultsPage) ResultTitles(limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	html, err := s.content()
	if err != nil {
		return nil, err
	}

	listings, err := s.parser.ParseListings(html)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, limit)
	for _, l := range listings {
		if len(titles) == limit {
			break
		}
		if l.Title != "" {
			titles = append(titles, l.Title)
		}
	}
	return titles, nil
}

// ContainsKeyword checks the first twenty titles for keyword.
func (s *SearchResultsPage) ContainsKeyword(keyword string) (bool, error) {
	titles, err := s.ResultTitles(20)
	if err != nil {
		return false, err
	}

	matches := parser.ContainsKeyword(titles, keyword)
	s.logger.Info("keyword check", "keyword", keyword, "matches", matches, "checked", len(titles))
	return matches > 0, nil
}

func (s *SearchResultsPage) countRows() (int, error) {
	html, err := s.content()
	if err != nil {
		return 0, err
	}

	count, err := s.parser.CountListings(html)
	if err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}
