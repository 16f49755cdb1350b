package pages_test

import (
	"errors"
	"testing"
	"time"

	"github.com/maltedev/ebay-ui-check/internal/pages"
	"github.com/maltedev/ebay-ui-check/internal/pages/pagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	homeURL = "https://www.ebay.com/"
	wait    = 2 * time.Second
)

func openResults(t *testing.T, page *pagetest.Page) *pages.SearchResultsPage {
	t.Helper()

	home := pages.NewHomePage(page, homeURL, wait, nil)
	require.NoError(t, home.NavigateToHome())
	require.NoError(t, home.SearchAndOpenResults("mazda mx-5"))

	return pages.NewSearchResultsPage(page, wait, nil)
}

func TestHomePageSearch(t *testing.T) {
	page := pagetest.NewPage(pagetest.Listings(5, 1))
	home := pages.NewHomePage(page, homeURL, wait, nil)

	require.NoError(t, home.NavigateToHome())
	assert.True(t, home.IsLoaded())

	require.NoError(t, home.SearchAndOpenResults("  mazda mx-5 "))
	assert.Equal(t, "mazda mx-5", page.Searched)
	assert.Contains(t, page.URL(), "/sch/i.html?_nkw=mazda+mx-5")
}

func TestHomePageErrors(t *testing.T) {
	t.Run("empty term", func(t *testing.T) {
		page := pagetest.NewPage(nil)
		home := pages.NewHomePage(page, homeURL, wait, nil)
		require.NoError(t, home.NavigateToHome())

		err := home.SearchAndOpenResults("   ")
		assert.ErrorIs(t, err, pages.ErrEmptySearchTerm)
	})

	t.Run("home unreachable", func(t *testing.T) {
		page := pagetest.NewPage(nil)
		page.GotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
		home := pages.NewHomePage(page, homeURL, wait, nil)

		err := home.NavigateToHome()
		assert.ErrorIs(t, err, pages.ErrNavigation)
	})

	t.Run("search input missing", func(t *testing.T) {
		page := pagetest.NewPage(nil)
		page.NoSearchInput = true
		home := pages.NewHomePage(page, homeURL, wait, nil)
		require.NoError(t, home.NavigateToHome())

		assert.False(t, home.IsLoaded())
		err := home.SearchAndOpenResults("mazda mx-5")
		assert.ErrorIs(t, err, pages.ErrElementNotFound)
	})

	t.Run("not on home page", func(t *testing.T) {
		page := pagetest.NewPage(nil)
		home := pages.NewHomePage(page, homeURL, wait, nil)

		err := home.SearchAndOpenResults("mazda mx-5")
		assert.ErrorIs(t, err, pages.ErrElementNotFound)
	})
}

func TestValidateResultsAndCount(t *testing.T) {
	page := pagetest.NewPage(pagetest.Listings(50, 12))
	results := openResults(t, page)

	count, err := results.ValidateResultsAndCount()
	require.NoError(t, err)
	assert.Equal(t, 50, count)
}

func TestValidateResultsAndCountNoResults(t *testing.T) {
	page := pagetest.NewPage(nil)
	results := openResults(t, page)

	count, err := results.ValidateResultsAndCount()
	assert.ErrorIs(t, err, pages.ErrNoResults)
	assert.Zero(t, count)
}

func TestValidateResultsAndCountTimeout(t *testing.T) {
	page := pagetest.NewPage(pagetest.Listings(50, 12))
	page.ResultsNeverLoad = true
	results := openResults(t, page)

	_, err := results.ValidateResultsAndCount()
	assert.ErrorIs(t, err, pages.ErrNavigation)
}

func TestApplyTransmissionAndGetCount(t *testing.T) {
	tests := []struct {
		name      string
		listings  []pagetest.Listing
		filter    string
		collapsed bool
		expected  int
	}{
		{"manual", pagetest.Listings(50, 12), "Manual", false, 12},
		{"automatic", pagetest.Listings(50, 12), "Automatic", false, 38},
		{"case insensitive label", pagetest.Listings(50, 12), "manual", false, 12},
		{"collapsed section", pagetest.Listings(50, 12), "Manual", true, 12},
		{"no manual listings", pagetest.Listings(7, 0), "Manual", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := pagetest.NewPage(tt.listings)
			page.CollapsedFilter = tt.collapsed
			results := openResults(t, page)

			total, err := results.ValidateResultsAndCount()
			require.NoError(t, err)

			filtered, err := results.ApplyTransmissionAndGetCount(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, filtered)
			assert.LessOrEqual(t, filtered, total)
			assert.Contains(t, page.URL(), "Transmission=")
		})
	}
}

func TestApplyTransmissionRendersInPlace(t *testing.T) {
	page := pagetest.NewPage(pagetest.Listings(50, 12))
	page.FilterInPlace = true
	results := openResults(t, page)

	_, err := results.ValidateResultsAndCount()
	require.NoError(t, err)
	before := page.URL()

	filtered, err := results.ApplyTransmissionAndGetCount("Manual")
	require.NoError(t, err)
	assert.Equal(t, 12, filtered)
	assert.Equal(t, before, page.URL())
}

func TestApplyTransmissionMissingControl(t *testing.T) {
	t.Run("option absent", func(t *testing.T) {
		page := pagetest.NewPage(pagetest.Listings(10, 3))
		results := openResults(t, page)
		_, err := results.ValidateResultsAndCount()
		require.NoError(t, err)

		_, err = results.ApplyTransmissionAndGetCount("CVT")
		assert.ErrorIs(t, err, pages.ErrElementNotFound)
	})

	t.Run("panel absent", func(t *testing.T) {
		page := pagetest.NewPage(pagetest.Listings(10, 3))
		page.NoFilterPanel = true
		results := openResults(t, page)
		_, err := results.ValidateResultsAndCount()
		require.NoError(t, err)

		_, err = results.ApplyTransmissionAndGetCount("Manual")
		assert.ErrorIs(t, err, pages.ErrElementNotFound)
	})
}

func TestResultsIdempotentReads(t *testing.T) {
	page := pagetest.NewPage(pagetest.Listings(50, 12))
	results := openResults(t, page)

	first, err := results.ValidateResultsAndCount()
	require.NoError(t, err)
	second, err := results.ValidateResultsAndCount()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTotalResultsAndTitles(t *testing.T) {
	page := pagetest.NewPage(pagetest.Listings(30, 4))
	results := openResults(t, page)

	total, err := results.TotalResults()
	require.NoError(t, err)
	assert.Equal(t, 30, total)

	titles, err := results.ResultTitles(10)
	require.NoError(t, err)
	assert.Len(t, titles, 10)
	assert.Contains(t, titles[0], "Mazda MX-5")

	titles, err = results.ResultTitles(0)
	require.NoError(t, err)
	assert.Empty(t, titles)

	found, err := results.ContainsKeyword("mx-5")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = results.ContainsKeyword("corvette")
	require.NoError(t, err)
	assert.False(t, found)
}
