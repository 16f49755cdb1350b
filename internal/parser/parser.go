package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrCountNotFound = errors.New("result count not found")

// Result page selectors shared by the page helpers and the offline fixture.
const (
	ResultListSelector   = "ul.srp-results"
	ResultRowSelector    = "ul.srp-results div.su-card-container"
	ResultTitleSelector  = "div.su-card-container__header span.su-styled-text.primary"
	ResultPriceSelector  = "span.s-card__price"
	ResultLinkSelector   = "a.su-link"
	CountHeadingSelector = "h1.srp-controls__count-heading span:first-child"
	FilterPanelSelector  = "div.srp-rail__left"
)

type Listing struct {
	Title string `json:"title"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

var countPattern = regexp.MustCompile(`\d[\d,.]*`)

// ResultsParser reads listing data out of a rendered search results page.
type ResultsParser struct {
	rowSelector     string
	titleSelector   string
	priceSelector   string
	linkSelector    string
	headingSelector string
}

func NewResultsParser() *ResultsParser {
	return &ResultsParser{
		rowSelector:     ResultRowSelector,
		titleSelector:   ResultTitleSelector,
		priceSelector:   ResultPriceSelector,
		linkSelector:    ResultLinkSelector,
		headingSelector: CountHeadingSelector,
	}
}

func (p *ResultsParser) CountListings(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc.Find(p.rowSelector).Length(), nil
}

func (p *ResultsParser) ParseListings(html string) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	listings := make([]Listing, 0)
	doc.Find(p.rowSelector).Each(func(_ int, row *goquery.Selection) {
		href, _ := row.Find(p.linkSelector).First().Attr("href")
		listings = append(listings, Listing{
			Title: strings.TrimSpace(row.Find(p.titleSelector).First().Text()),
			Price: strings.TrimSpace(row.Find(p.priceSelector).First().Text()),
			URL:   href,
		})
	})

	return listings, nil
}

// ParseHeadingCount returns the total advertised in the results heading,
// e.g. "1,023 results for mazda mx-5".
func (p *ResultsParser) ParseHeadingCount(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("failed to parse HTML: %w", err)
	}

	heading := doc.Find(p.headingSelector).First()
	if heading.Length() == 0 {
		return 0, ErrCountNotFound
	}

	return ParseCount(heading.Text())
}

// ParseCount extracts the first number from text, ignoring thousands
// separators.
func ParseCount(text string) (int, error) {
	match := countPattern.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("%w in %q", ErrCountNotFound, text)
	}

	digits := strings.NewReplacer(",", "", ".", "").Replace(match)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("failed to parse count %q: %w", match, err)
	}

	return n, nil
}

// ContainsKeyword reports how many titles contain keyword, case-insensitively.
func ContainsKeyword(titles []string, keyword string) int {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return 0
	}

	matches := 0
	for _, title := range titles {
		if strings.Contains(strings.ToLower(title), keyword) {
			matches++
		}
	}
	return matches
}
