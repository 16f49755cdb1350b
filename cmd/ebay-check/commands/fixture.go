package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/maltedev/ebay-ui-check/internal/browser"
	"github.com/maltedev/ebay-ui-check/internal/fixture"
	"github.com/maltedev/ebay-ui-check/pkg/logger"
)

var fixtureAddr string

var fixtureCmd = &cobra.Command{
	Use:   "serve-fixture",
	Short: "Serve an offline eBay-shaped site for local runs",
	Long: `serve-fixture serves a home page and a search results page with the same
selectors as eBay, backed by 50 Mazda MX-5 listings of which 12 are manual.
Point "run --base-url" at it to exercise the check without network access.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(levelOr("info"), "text")

		srv := &http.Server{
			Addr:              fixtureAddr,
			Handler:           fixture.NewRouter(fixture.DefaultCatalog(), log),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("serving fixture", "addr", fixtureAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigChan:
			log.Info("shutdown signal received")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the playwright driver and Chromium if missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return browser.EnsureInstalled(logger.New(levelOr("info"), "text"))
	},
}

func init() {
	fixtureCmd.Flags().StringVar(&fixtureAddr, "addr", "127.0.0.1:8089", "Listen address")
}

func levelOr(defaultLevel string) string {
	if logLevel != "" {
		return logLevel
	}
	return defaultLevel
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
