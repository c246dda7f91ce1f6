package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/investo/internal/pipeline"
	"github.com/wonny/investo/internal/report"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKER",
	Short: "Analyze one ticker",
	Long: `Collects data for TICKER, computes the value and growth scorecards,
blends them with Reddit sentiment and prints the verdict.

--html and --pdf additionally write report files to REPORTS_DIR.
--json prints the full result as JSON instead of the summary.

Example:
  go run ./cmd/investo analyze AAPL
  go run ./cmd/investo analyze BRK.B --html --pdf
  go run ./cmd/investo analyze MSFT --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeHTML bool
	analyzePDF  bool
	analyzeJSON bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeHTML, "html", false, "write an HTML report")
	analyzeCmd.Flags().BoolVar(&analyzePDF, "pdf", false, "write a PDF report")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the result as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := buildDeps(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer d.Close()

	config := pipeline.RunConfig{Symbol: args[0]}
	if analyzeHTML {
		config.Formats = append(config.Formats, report.FormatHTML)
	}
	if analyzePDF {
		config.Formats = append(config.Formats, report.FormatPDF)
	}
	config.Render = len(config.Formats) > 0

	result, err := d.orchestrator.Run(ctx, config)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", strings.ToUpper(args[0]), err)
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		return PrintJSON(out, result)
	}
	printAnalysis(out, result, d.renderer.Dir())
	return nil
}

// printAnalysis prints the human-readable summary of one run
func printAnalysis(w io.Writer, result *pipeline.RunResult, reportsDir string) {
	r := result.Record
	name := r.Name
	if name == "" {
		name = r.Symbol
	}

	PrintHeader(w, fmt.Sprintf("%s (%s)", name, r.Symbol))
	PrintKeyValue(w, "Price", report.Currency(r.Price), 12)
	PrintKeyValue(w, "Market cap", report.LargeNumber(r.MarketCap), 12)
	if r.Sector != "" {
		PrintKeyValue(w, "Sector", r.Sector, 12)
	}
	PrintKeyValue(w, "Sources", strings.Join(r.Sources, ", "), 12)

	v := result.Verdict
	PrintHeader(w, fmt.Sprintf("Verdict: %s  (composite %s/100)", v.Label, report.Score(v.CompositeScore)))
	PrintKeyValue(w, "Value", report.Score(v.Breakdown.ValueScore), 12)
	PrintKeyValue(w, "Growth", report.Score(v.Breakdown.GrowthScore), 12)
	PrintKeyValue(w, "Sentiment", report.Score(v.Breakdown.SentimentScore), 12)
	fmt.Fprintln(w)
	PrintList(w, v.Rationale)

	printRows(w, "Value criteria", report.ValueRows(result.Value))
	printRows(w, "Growth criteria", report.GrowthRows(result.Growth))

	PrintHeader(w, "Sentiment")
	printSentiment(w, result)

	if len(r.News) > 0 {
		PrintHeader(w, "Company news")
		headlines := make([]string, 0, len(r.News))
		for _, n := range r.News {
			headlines = append(headlines, n.Headline)
		}
		PrintList(w, headlines)
	}

	if len(result.Reports) > 0 {
		fmt.Fprintln(w)
		for _, name := range result.Reports {
			PrintSuccess(w, "Report written: "+filepath.Join(reportsDir, name))
		}
	}
	fmt.Fprintln(w)
}

func printRows(w io.Writer, title string, rows []report.Row) {
	passed, measured := report.PassCount(rows)
	PrintHeader(w, fmt.Sprintf("%s (%d/%d passed)", title, passed, measured))

	widths := []int{26, 12, 20, 6}
	PrintTableHeader(w, []string{"Metric", "Value", "Criterion", "Status"}, widths)
	for _, row := range rows {
		PrintTableRow(w, []string{row.Metric, row.Value, row.Criterion, strings.ToUpper(row.Status)}, widths)
	}
}

func printSentiment(w io.Writer, result *pipeline.RunResult) {
	s := result.Sentiment
	if !s.Available() {
		PrintInfo(w, fmt.Sprintf("Neutral %s/100. %s", report.Score(s.Score), s.Note))
	} else {
		PrintKeyValue(w, "Score", fmt.Sprintf("%s/100 (%s)", report.Score(s.Score), s.Verdict), 12)
		PrintKeyValue(w, "Mentions", fmt.Sprintf("%d", s.Mentions), 12)
		PrintKeyValue(w, "Confidence", fmt.Sprintf("%.0f%%", s.Confidence*100), 12)
		PrintKeyValue(w, "Momentum", fmt.Sprintf("%+.1f%%", s.Momentum*100), 12)
	}

	if c := result.Record.Crowd; c.Mentions > 0 {
		PrintKeyValue(w, "StockTwits", fmt.Sprintf("%d messages, %d bullish, %d bearish", c.Mentions, c.Bullish, c.Bearish), 12)
	}
}
