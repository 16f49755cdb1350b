package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/maltedev/ebay-ui-check/internal/config"
	"github.com/maltedev/ebay-ui-check/internal/runner"
	"github.com/maltedev/ebay-ui-check/pkg/logger"
)

var (
	baseURL  string
	headed   bool
	slowMoMS int
)

// errRunFailed is returned when the report recorded a failure but the
// scenario itself returned no error.
var errRunFailed = errors.New("check did not pass")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the search and filter check once",
	Long: `Run loads the settings file, drives the browser through search, result
counting and filtering, and writes the execution log, HTML report and
screenshot. The exit code is non-zero unless every assertion passed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := overridesFrom(cmd).apply(cfg); err != nil {
			return err
		}

		log, closer, err := logger.NewWithFile(cfg.Logging.Level, cfg.Logging.Format, cfg.Artifacts.LogFile)
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := runner.New(cfg, log).Run(ctx)
		if err := outcome(res, err); err != nil {
			log.Error("check failed", "error", err, "report", res.ReportPath, "screenshot", res.ScreenshotPath)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "PASS: %d results for %q, %d after %s filter (report: %s)\n",
			res.InitialCount, cfg.SearchTerm, res.FilteredCount, cfg.FilterValue, res.ReportPath)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&baseURL, "base-url", "", "Override the site root, e.g. a local fixture")
	runCmd.Flags().BoolVar(&headed, "headed", false, "Show the browser window")
	runCmd.Flags().IntVar(&slowMoMS, "slow-mo", 0, "Delay every browser action by this many milliseconds")
}

// runOverrides are the command-line settings layered over the loaded config.
type runOverrides struct {
	logLevel string
	baseURL  string
	headed   bool
	slowMo   *time.Duration
}

func overridesFrom(cmd *cobra.Command) runOverrides {
	o := runOverrides{logLevel: logLevel, baseURL: baseURL, headed: headed}
	if cmd.Flags().Changed("slow-mo") {
		d := millis(slowMoMS)
		o.slowMo = &d
	}
	return o
}

// apply writes the overrides into cfg and validates the result again.
func (o runOverrides) apply(cfg *config.Config) error {
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.baseURL != "" {
		cfg.Browser.BaseURL = o.baseURL
	}
	if o.headed {
		cfg.Headless = false
	}
	if o.slowMo != nil {
		cfg.Browser.SlowMo = *o.slowMo
	}
	return cfg.Validate()
}

// outcome maps a finished run to the command error.
func outcome(res *runner.Result, err error) error {
	if err != nil {
		return err
	}
	if !res.Passed {
		return fmt.Errorf("%w: see %s", errRunFailed, res.ReportPath)
	}
	return nil
}
