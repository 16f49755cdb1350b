package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestSummary(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := New("run-1", "Mazda MX-5 Search & Filter")
	r.StartedAt = start
	r.now = fixedClock(start)

	r.Pass("Validate eBay home page loaded", "")
	r.Pass("Get search result count", "50 results")
	r.Warn("Validate results contain 'mazda mx-5'", "no matching titles")

	s := r.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 0, s.Failed)
	assert.Equal(t, 1, s.Warnings)
	assert.Equal(t, 4*time.Second, s.Duration)
	assert.True(t, r.Passed())

	r.Fail("Filter by Transmission -> Manual", "element not found")
	assert.False(t, r.Passed())
}

func TestStepsReturnsCopy(t *testing.T) {
	r := New("run-1", "title")
	r.Pass("one", "")

	steps := r.Steps()
	steps[0].Name = "changed"

	assert.Equal(t, "one", r.Steps()[0].Name)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "reports", "test_report.html")
	screenshot := filepath.Join(dir, "screenshots", "final_results.png")

	r := New("8a4c", "Mazda MX-5 Search & Filter")
	r.Pass("Get search result count", "Total search results: 50")
	r.Add("Take final screenshot", StatusPass, "Final screenshot captured", screenshot)
	r.Fail("Filter by Transmission -> <Manual>", "boom")

	require.NoError(t, r.Generate(reportPath))

	_, err := os.Stat(reportPath + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")

	f, err := os.Open(reportPath)
	require.NoError(t, err)
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)

	assert.Equal(t, "Mazda MX-5 Search & Filter", doc.Find("p.title").Text())
	assert.Equal(t, "Run 8a4c", doc.Find("p.run-id").Text())
	assert.Equal(t, "3", doc.Find("#total").Text())
	assert.Equal(t, "2", doc.Find("#passed").Text())
	assert.Equal(t, "1", doc.Find("#failed").Text())
	assert.Equal(t, "0", doc.Find("#warnings").Text())

	items := doc.Find(".result-item")
	require.Equal(t, 3, items.Length())
	assert.Equal(t, "FAIL", strings.TrimSpace(items.Eq(2).Find(".status-badge.fail").Text()))
	assert.Equal(t, "Filter by Transmission -> <Manual>", items.Eq(2).Find(".result-name").Text())

	href, ok := items.Eq(1).Find("a.screenshot-link").Attr("href")
	require.True(t, ok)
	assert.Equal(t, "../screenshots/final_results.png", href)
	assert.Equal(t, 0, items.Eq(0).Find("a.screenshot-link").Length())
}

func TestGenerateOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")

	r := New("a", "first")
	require.NoError(t, r.Generate(path))

	r = New("b", "second")
	require.NoError(t, r.Generate(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second")
	assert.NotContains(t, string(data), "Run a<")
}
