package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	profilePath string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "investo",
	Short: "Investo - single-ticker value, growth and sentiment analysis",
	Long: `Investo Unified CLI

Collects fundamentals, news and social sentiment for one ticker,
scores it against value and growth criteria and renders a report.

Usage:
  go run ./cmd/investo [command]

Examples:
  go run ./cmd/investo analyze AAPL --html
  go run ./cmd/investo sentiment TSLA
  go run ./cmd/investo api --port 8089
  go run ./cmd/investo cleanup --days 7`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). Ctrl+C cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "analysis profile YAML (default: $ANALYSIS_PROFILE or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
