package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultsPage(heading string, titles ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	if heading != "" {
		fmt.Fprintf(&b, `<h1 class="srp-controls__count-heading"><span class="BOLD">%s</span><span> results for mazda mx-5</span></h1>`, heading)
	}
	b.WriteString(`<ul class="srp-results">`)
	for i, title := range titles {
		fmt.Fprintf(&b, `<li><div class="su-card-container">
			<div class="su-card-container__header"><a class="su-link" href="/itm/%d"><span class="su-styled-text primary">%s</span></a></div>
			<span class="s-card__price">$%d,500.00</span>
		</div></li>`, i+1, title, 10+i)
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

func TestCountListings(t *testing.T) {
	p := NewResultsParser()

	titles := make([]string, 50)
	for i := range titles {
		titles[i] = fmt.Sprintf("2004 Mazda MX-5 Miata #%d", i)
	}

	count, err := p.CountListings(resultsPage("50", titles...))
	require.NoError(t, err)
	assert.Equal(t, 50, count)

	count, err = p.CountListings(resultsPage("0"))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCountListingsIgnoresRowsOutsideResults(t *testing.T) {
	p := NewResultsParser()

	html := `<div class="su-card-container">sponsored</div>` + resultsPage("1", "1990 Mazda MX-5")
	count, err := p.CountListings(html)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestParseListings(t *testing.T) {
	p := NewResultsParser()

	listings, err := p.ParseListings(resultsPage("2", "1990 Mazda MX-5 Miata", "2016 Mazda MX-5 RF"))
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, Listing{Title: "1990 Mazda MX-5 Miata", Price: "$10,500.00", URL: "/itm/1"}, listings[0])
	assert.Equal(t, "2016 Mazda MX-5 RF", listings[1].Title)
}

func TestParseHeadingCount(t *testing.T) {
	p := NewResultsParser()

	count, err := p.ParseHeadingCount(resultsPage("1,023"))
	require.NoError(t, err)
	assert.Equal(t, 1023, count)

	_, err = p.ParseHeadingCount(resultsPage(""))
	assert.ErrorIs(t, err, ErrCountNotFound)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		hasError bool
	}{
		{"plain", "50", 50, false},
		{"thousands separator", "1,023 results", 1023, false},
		{"european separator", "12.345 Ergebnisse", 12345, false},
		{"leading text", "Results: 12", 12, false},
		{"first number wins", "12 of 50", 12, false},
		{"no digits", "Results for mazda miata", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCount(tt.input)
			if tt.hasError {
				assert.ErrorIs(t, err, ErrCountNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestContainsKeyword(t *testing.T) {
	titles := []string{"1990 Mazda MX-5 Miata", "Mazda mx-5 hardtop", "Honda S2000"}

	assert.Equal(t, 2, ContainsKeyword(titles, "MX-5"))
	assert.Equal(t, 0, ContainsKeyword(titles, "boxster"))
	assert.Equal(t, 0, ContainsKeyword(titles, "  "))
	assert.Equal(t, 0, ContainsKeyword(nil, "mazda"))
}
