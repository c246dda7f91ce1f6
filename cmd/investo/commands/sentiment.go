package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/investo/internal/collector"
	"github.com/wonny/investo/internal/report"
)

// sentimentCmd represents the sentiment command
var sentimentCmd = &cobra.Command{
	Use:   "sentiment TICKER",
	Short: "Reddit sentiment for one ticker",
	Long: `Searches the profile's subreddits for TICKER and prints the
sentiment scorecard without collecting fundamentals.

Example:
  go run ./cmd/investo sentiment TSLA
  go run ./cmd/investo sentiment GME --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSentiment,
}

var sentimentJSON bool

func init() {
	rootCmd.AddCommand(sentimentCmd)

	sentimentCmd.Flags().BoolVar(&sentimentJSON, "json", false, "print the scorecard as JSON")
}

func runSentiment(cmd *cobra.Command, args []string) error {
	symbol, err := collector.NormalizeSymbol(args[0])
	if err != nil {
		return err
	}

	d, err := buildDeps(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer d.Close()

	s := d.analyzer.Analyze(cmd.Context(), symbol)

	out := cmd.OutOrStdout()
	if sentimentJSON {
		return PrintJSON(out, s)
	}

	PrintHeader(out, fmt.Sprintf("Sentiment: %s", symbol))
	if !s.Available() {
		PrintInfo(out, fmt.Sprintf("Neutral %s/100. %s", report.Score(s.Score), s.Note))
		return nil
	}

	PrintKeyValue(out, "Score", fmt.Sprintf("%s/100 (%s)", report.Score(s.Score), s.Verdict), 16)
	PrintKeyValue(out, "Tone", s.Tone, 16)
	PrintKeyValue(out, "Mentions", fmt.Sprintf("%d", s.Mentions), 16)
	PrintKeyValue(out, "Avg sentiment", fmt.Sprintf("%+.3f", s.AvgSentiment), 16)
	PrintKeyValue(out, "Confidence", fmt.Sprintf("%.0f%%", s.Confidence*100), 16)
	PrintKeyValue(out, "Momentum", fmt.Sprintf("%+.1f%%", s.Momentum*100), 16)
	PrintKeyValue(out, "Buzz", fmt.Sprintf("%.2fx", s.Buzz), 16)
	PrintKeyValue(out, "Reliability", fmt.Sprintf("%.1f", s.ReliabilityIndex), 16)

	if len(s.TopPosts) > 0 {
		PrintHeader(out, "Top posts")
		posts := make([]string, 0, len(s.TopPosts))
		for _, p := range s.TopPosts {
			posts = append(posts, fmt.Sprintf("[r/%s, %d pts, %+.2f] %s", p.Subreddit, p.Score, p.Sentiment, strings.TrimSpace(p.Title)))
		}
		PrintList(out, posts)
	}
	fmt.Fprintln(out)
	return nil
}
