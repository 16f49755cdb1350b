// Package pagetest provides a scripted playwright.Page that walks through the
// eBay home, results and filtered-results states without a browser.
package pagetest

import (
	"errors"
	"fmt"
	"html"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/maltedev/ebay-ui-check/internal/pages"
	"github.com/maltedev/ebay-ui-check/internal/parser"
	"github.com/playwright-community/playwright-go"
)

// ErrTimeout is returned by every wait whose condition can never hold.
var ErrTimeout = errors.New("timeout exceeded")

// PNG is the payload written for every screenshot.
var PNG = []byte("\x89PNG\r\n\x1a\n")

type state int

const (
	stateBlank state = iota
	stateHome
	stateResults
	stateFiltered
)

type Listing struct {
	Title        string
	Transmission string
}

// Listings builds total listings of which manual carry a manual transmission.
func Listings(total, manual int) []Listing {
	listings := make([]Listing, 0, total)
	for i := 0; i < total; i++ {
		transmission := "Automatic"
		if i < manual {
			transmission = "Manual"
		}
		listings = append(listings, Listing{
			Title:        fmt.Sprintf("%d Mazda MX-5 Miata %s", 1990+i%30, transmission),
			Transmission: transmission,
		})
	}
	return listings
}

// Page fakes the subset of playwright.Page used by the page helpers. Any
// other method panics through the nil embedded interface.
type Page struct {
	playwright.Page

	Listings      []Listing
	FilterOptions []string

	// Toggles for failure scenarios.
	GotoErr          error
	NoSearchInput    bool
	ResultsNeverLoad bool
	NoFilterPanel    bool
	CollapsedFilter  bool
	FilterInPlace    bool

	Screenshots []string
	Searched    string
	Filter      string

	state    state
	url      string
	expanded bool
}

func NewPage(listings []Listing) *Page {
	return &Page{
		Listings:      listings,
		FilterOptions: []string{"Manual", "Automatic"},
	}
}

func (p *Page) Goto(u string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	if p.GotoErr != nil {
		return nil, p.GotoErr
	}
	p.state = stateHome
	p.url = u
	return nil, nil
}

func (p *Page) URL() string {
	return p.url
}

func (p *Page) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return &Locator{page: p, selector: selector}
}

// WaitForURL succeeds once a results state is reached and the current URL
// satisfies u, a pattern or a predicate.
func (p *Page) WaitForURL(u interface{}, options ...playwright.PageWaitForURLOptions) error {
	if p.state != stateResults && p.state != stateFiltered {
		return ErrTimeout
	}
	switch m := u.(type) {
	case *regexp.Regexp:
		if !m.MatchString(p.url) {
			return ErrTimeout
		}
	case func(string) bool:
		if !m(p.url) {
			return ErrTimeout
		}
	case string:
		if m != p.url {
			return ErrTimeout
		}
	}
	return nil
}

func (p *Page) WaitForLoadState(options ...playwright.PageWaitForLoadStateOptions) error {
	return nil
}

func (p *Page) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	if len(options) > 0 && options[0].Path != nil {
		path := *options[0].Path
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, PNG, 0644); err != nil {
			return nil, err
		}
		p.Screenshots = append(p.Screenshots, path)
	}
	return PNG, nil
}

func (p *Page) Content() (string, error) {
	switch p.state {
	case stateHome:
		return p.homeHTML(), nil
	case stateResults, stateFiltered:
		return p.resultsHTML(), nil
	default:
		return "<html><body></body></html>", nil
	}
}

func (p *Page) onResults() bool {
	return (p.state == stateResults || p.state == stateFiltered) && !p.ResultsNeverLoad
}

func (p *Page) present(selector string) bool {
	switch selector {
	case pages.SearchInputSelector, pages.SearchButtonSelector:
		return p.state == stateHome && !p.NoSearchInput
	case parser.ResultListSelector:
		return p.onResults()
	case parser.FilterPanelSelector:
		return p.onResults() && !p.NoFilterPanel
	}
	return false
}

func (p *Page) option(text string) (string, bool) {
	if !p.present(parser.FilterPanelSelector) {
		return "", false
	}
	if strings.EqualFold(text, pages.TransmissionSectionText) {
		return pages.TransmissionSectionText, true
	}
	for _, opt := range p.FilterOptions {
		if strings.Contains(strings.ToLower(opt), strings.ToLower(text)) {
			return opt, true
		}
	}
	return "", false
}

func (p *Page) visible() []Listing {
	if p.state != stateFiltered {
		return p.Listings
	}
	var out []Listing
	for _, l := range p.Listings {
		if strings.EqualFold(l.Transmission, p.Filter) {
			out = append(out, l)
		}
	}
	return out
}

func (p *Page) homeHTML() string {
	if p.NoSearchInput {
		return `<html><body><p>Service unavailable</p></body></html>`
	}
	return `<html><body><form action="/sch/i.html"><input placeholder="Search for anything" name="_nkw"><button type="submit">Search</button></form></body></html>`
}

func (p *Page) resultsHTML() string {
	if p.ResultsNeverLoad {
		return `<html><body><div class="spinner"></div></body></html>`
	}

	listings := p.visible()
	var b strings.Builder
	b.WriteString(`<html><body>`)
	fmt.Fprintf(&b, `<h1 class="srp-controls__count-heading"><span class="BOLD">%d</span><span> results for %s</span></h1>`,
		len(listings), html.EscapeString(p.Searched))
	if !p.NoFilterPanel {
		b.WriteString(`<div class="srp-rail__left"><h3>Transmission</h3>`)
		for _, opt := range p.FilterOptions {
			fmt.Fprintf(&b, `<a href="#">%s</a>`, html.EscapeString(opt))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`<ul class="srp-results">`)
	for i, l := range listings {
		fmt.Fprintf(&b, `<li><div class="su-card-container"><div class="su-card-container__header"><a class="su-link" href="/itm/%d"><span class="su-styled-text primary">%s</span></a></div><span class="s-card__price">$9,999.00</span></div></li>`,
			i+1, html.EscapeString(l.Title))
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

// pwLocator keeps the embedded field from hiding playwright.Locator's own
// Locator method.
type pwLocator = playwright.Locator

var (
	_ playwright.Page    = (*Page)(nil)
	_ playwright.Locator = (*Locator)(nil)
)

// Locator resolves its selector or text against the page state at call time,
// the way playwright locators are lazy.
type Locator struct {
	pwLocator

	page     *Page
	selector string
	text     string
}

func (l *Locator) First() playwright.Locator {
	return l
}

func (l *Locator) GetByText(text interface{}, options ...playwright.LocatorGetByTextOptions) playwright.Locator {
	return &Locator{page: l.page, selector: l.selector, text: fmt.Sprint(text)}
}

func (l *Locator) exists() bool {
	if l.text != "" {
		_, ok := l.page.option(l.text)
		return ok
	}
	return l.page.present(l.selector)
}

func (l *Locator) Count() (int, error) {
	if l.exists() {
		return 1, nil
	}
	return 0, nil
}

func (l *Locator) IsVisible(options ...playwright.LocatorIsVisibleOptions) (bool, error) {
	if !l.exists() {
		return false, nil
	}
	if l.text != "" && !strings.EqualFold(l.text, pages.TransmissionSectionText) {
		return !l.page.CollapsedFilter || l.page.expanded, nil
	}
	return true, nil
}

func (l *Locator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	if l.exists() {
		return nil
	}
	return ErrTimeout
}

func (l *Locator) ScrollIntoViewIfNeeded(options ...playwright.LocatorScrollIntoViewIfNeededOptions) error {
	return nil
}

func (l *Locator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	if !l.exists() {
		return ErrTimeout
	}
	l.page.Searched = value
	return nil
}

func (l *Locator) Click(options ...playwright.LocatorClickOptions) error {
	if !l.exists() {
		return ErrTimeout
	}

	p := l.page
	if l.text != "" {
		label, _ := p.option(l.text)
		if label == pages.TransmissionSectionText {
			p.expanded = true
			return nil
		}
		if p.CollapsedFilter && !p.expanded {
			return ErrTimeout
		}
		p.Filter = strings.TrimSpace(label)
		p.state = stateFiltered
		if !p.FilterInPlace {
			p.url = p.url + "&Transmission=" + url.QueryEscape(p.Filter)
		}
		return nil
	}

	if l.selector == pages.SearchButtonSelector {
		p.state = stateResults
		p.url = strings.TrimSuffix(p.url, "/") + "/sch/i.html?_nkw=" + url.QueryEscape(p.Searched)
	}
	return nil
}
