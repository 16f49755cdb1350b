package commands

import (
	"github.com/spf13/cobra"

	"github.com/maltedev/ebay-ui-check/internal/config"
)

const Version = "0.1.0"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ebay-check",
	Short: "Browser check for eBay search and transmission filtering",
	Long: `ebay-check opens eBay in a real browser, searches for the configured term,
counts the results, applies the transmission filter and writes a log, an HTML
report and a screenshot of the final page.`,
	Version:      Version,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(fixtureCmd)
	rootCmd.AddCommand(installCmd)
}
