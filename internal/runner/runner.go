package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/maltedev/ebay-ui-check/internal/browser"
	"github.com/maltedev/ebay-ui-check/internal/config"
	"github.com/maltedev/ebay-ui-check/internal/pages"
	"github.com/maltedev/ebay-ui-check/internal/report"
	"github.com/playwright-community/playwright-go"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvariant is returned when the filtered count is negative or larger
// than the unfiltered count.
var ErrInvariant = errors.New("filtered count violates result invariants")

type Result struct {
	RunID          string
	InitialCount   int
	FilteredCount  int
	TotalResults   int
	ScreenshotPath string
	ReportPath     string
	Passed         bool
}

type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	printer *message.Printer
}

func New(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:     cfg,
		logger:  logger.With("component", "runner"),
		printer: message.NewPrinter(language.English),
	}
}

func (r *Runner) browserOptions() *browser.Options {
	opts := browser.DefaultOptions()
	opts.Headless = r.cfg.Headless
	opts.Timeout = r.cfg.ElementWait
	opts.SlowMo = r.cfg.Browser.SlowMo
	return opts
}

// Run launches a browser, executes the search and filter scenario on a fresh
// page and releases the browser on every path. Screenshot and report are
// written before the browser closes, whether the scenario passed or not.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res, rep := r.begin()

	b, err := browser.New(r.browserOptions(), r.logger)
	if err != nil {
		rep.Fail("Launch browser", err.Error())
		return r.finish(res, rep, nil, err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			r.logger.Error("failed to close browser", "error", err)
		}
	}()

	page, err := b.NewPage()
	if err != nil {
		rep.Fail("Open browser page", err.Error())
		return r.finish(res, rep, nil, err)
	}

	err = r.scenario(ctx, page, rep, res)
	return r.finish(res, rep, page, err)
}

// RunOnPage executes the scenario on a session the caller owns.
func (r *Runner) RunOnPage(ctx context.Context, page playwright.Page) (*Result, error) {
	res, rep := r.begin()
	err := r.scenario(ctx, page, rep, res)
	return r.finish(res, rep, page, err)
}

func (r *Runner) begin() (*Result, *report.Report) {
	res := &Result{
		RunID:          uuid.NewString(),
		ScreenshotPath: r.cfg.Artifacts.ScreenshotFile,
		ReportPath:     r.cfg.Artifacts.ReportFile,
	}
	title := fmt.Sprintf("eBay search for %q filtered by %s transmission", r.cfg.SearchTerm, r.cfg.FilterValue)

	r.logger.Info("starting search and filter check",
		"run_id", res.RunID,
		"search_term", r.cfg.SearchTerm,
		"filter_value", r.cfg.FilterValue,
		"element_wait", r.cfg.ElementWait,
	)
	return res, report.New(res.RunID, title)
}

func (r *Runner) scenario(ctx context.Context, page playwright.Page, rep *report.Report, res *Result) error {
	if err := ctx.Err(); err != nil {
		rep.Fail("Start run", err.Error())
		return err
	}

	home := pages.NewHomePage(page, r.cfg.Browser.BaseURL, r.cfg.ElementWait, r.logger)
	if err := home.NavigateToHome(); err != nil {
		rep.Fail("Navigate to eBay home page", err.Error())
		return err
	}

	if !home.IsLoaded() {
		err := fmt.Errorf("%w: home page search input not visible", pages.ErrNavigation)
		rep.Fail("Validate eBay home page loaded", err.Error())
		return err
	}
	rep.Pass("Validate eBay home page loaded", "eBay home page validated successfully")

	if err := home.SearchAndOpenResults(r.cfg.SearchTerm); err != nil {
		rep.Fail(fmt.Sprintf("Search for '%s'", r.cfg.SearchTerm), err.Error())
		return err
	}
	rep.Pass(fmt.Sprintf("Search for '%s'", r.cfg.SearchTerm), "Search results page opened")

	results := pages.NewSearchResultsPage(page, r.cfg.ElementWait, r.logger)

	count, err := results.ValidateResultsAndCount()
	if err != nil {
		rep.Fail("Validate search results displayed", err.Error())
		return err
	}
	res.InitialCount = count
	rep.Pass("Validate search results displayed", r.printer.Sprintf("%d results displayed", count))

	if total, err := results.TotalResults(); err != nil {
		rep.Warn("Get search result count", fmt.Sprintf("Could not read result heading: %v", err))
	} else {
		res.TotalResults = total
		rep.Pass("Get search result count", r.printer.Sprintf("Total search results: %d", total))
	}

	keywordStep := fmt.Sprintf("Validate results contain '%s'", r.cfg.SearchTerm)
	if found, err := results.ContainsKeyword(r.cfg.SearchTerm); err != nil || !found {
		rep.Warn(keywordStep, fmt.Sprintf("Results do not contain keyword '%s'", r.cfg.SearchTerm))
	} else {
		rep.Pass(keywordStep, fmt.Sprintf("Results contain the search keyword '%s'", r.cfg.SearchTerm))
	}

	if err := ctx.Err(); err != nil {
		rep.Fail("Apply filter", err.Error())
		return err
	}

	filterStep := fmt.Sprintf("Filter by Transmission -> %s", r.cfg.FilterValue)
	filtered, err := results.ApplyTransmissionAndGetCount(r.cfg.FilterValue)
	if err != nil {
		rep.Fail(filterStep, err.Error())
		return err
	}
	res.FilteredCount = filtered
	rep.Pass(filterStep, r.printer.Sprintf("%d results after applying %s filter", filtered, r.cfg.FilterValue))

	if err := CheckCounts(count, filtered); err != nil {
		rep.Fail("Verify filtered count", err.Error())
		return err
	}
	rep.Pass("Verify filtered count", r.printer.Sprintf("%d filtered of %d results", filtered, count))

	r.logger.Info("search and filter check complete", "results", count, "filtered", filtered, "total", res.TotalResults)
	return nil
}

// CheckCounts asserts 0 <= filtered <= initial and initial > 0.
func CheckCounts(initial, filtered int) error {
	if initial <= 0 {
		return fmt.Errorf("%w: expected search results > 0, got %d", ErrInvariant, initial)
	}
	if filtered < 0 {
		return fmt.Errorf("%w: filtered count %d is negative", ErrInvariant, filtered)
	}
	if filtered > initial {
		return fmt.Errorf("%w: filtered count %d exceeds %d", ErrInvariant, filtered, initial)
	}
	return nil
}

func (r *Runner) finish(res *Result, rep *report.Report, page playwright.Page, runErr error) (*Result, error) {
	if page != nil {
		if err := browser.Screenshot(page, res.ScreenshotPath); err != nil {
			r.logger.Error("failed to capture screenshot", "error", err)
			rep.Warn("Take final screenshot", err.Error())
		} else {
			rep.Add("Take final screenshot", report.StatusPass, "Final screenshot captured", res.ScreenshotPath)
			r.logger.Info("screenshot saved", "path", res.ScreenshotPath)
		}
	}

	if err := rep.Generate(res.ReportPath); err != nil {
		r.logger.Error("failed to generate report", "error", err)
		runErr = errors.Join(runErr, err)
	} else {
		r.logger.Info("report generated", "path", res.ReportPath)
	}

	res.Passed = runErr == nil && rep.Passed()

	if runErr != nil {
		r.logger.Error("search and filter check failed", "run_id", res.RunID, "error", runErr)
		return res, runErr
	}

	r.logger.Info("search and filter check passed", "run_id", res.RunID)
	return res, nil
}
