package scoring

import (
	"context"

	"github.com/wonny/investo/internal/contracts"
	"github.com/wonny/investo/pkg/logger"
)

// Engine runs both scorecards and the aggregator with debug logging.
// The package-level functions stay pure; Engine only adds observability.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new scoring engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log.Component("scoring")}
}

// Result bundles everything the scoring core produces for one ticker
type Result struct {
	Value   contracts.ValueScorecard  `json:"value"`
	Growth  contracts.GrowthScorecard `json:"growth"`
	Verdict contracts.Verdict         `json:"verdict"`
}

// Value computes the value scorecard
func (e *Engine) Value(ctx context.Context, r contracts.StockRecord) contracts.ValueScorecard {
	value := ComputeValue(r)

	e.logger.WithFields(map[string]interface{}{
		"symbol":        r.Symbol,
		"pe":            optionalLog(value.PE),
		"pb":            optionalLog(value.PB),
		"combined_test": value.CombinedTest,
		"mos_pct":       optionalLog(value.MarginOfSafetyPct),
	}).Debug("Computed value scorecard")

	return value
}

// Growth computes the growth scorecard
func (e *Engine) Growth(ctx context.Context, r contracts.StockRecord) contracts.GrowthScorecard {
	growth := ComputeGrowth(r)

	e.logger.WithFields(map[string]interface{}{
		"symbol":  r.Symbol,
		"peg":     optionalLog(growth.PEG),
		"roe_pct": optionalLog(growth.ROEPct),
	}).Debug("Computed growth scorecard")

	return growth
}

// Scorecards computes the value and growth scorecards
func (e *Engine) Scorecards(ctx context.Context, r contracts.StockRecord) (contracts.ValueScorecard, contracts.GrowthScorecard) {
	return e.Value(ctx, r), e.Growth(ctx, r)
}

// Verdict aggregates precomputed scorecards with sentiment
func (e *Engine) Verdict(ctx context.Context, symbol string, value contracts.ValueScorecard, growth contracts.GrowthScorecard, sentiment *contracts.SentimentScorecard) contracts.Verdict {
	v := Aggregate(value, growth, sentiment)

	e.logger.WithFields(map[string]interface{}{
		"symbol":    symbol,
		"value":     v.Breakdown.ValueScore,
		"growth":    v.Breakdown.GrowthScore,
		"sentiment": v.Breakdown.SentimentScore,
		"composite": v.CompositeScore,
		"label":     v.Label,
	}).Debug("Aggregated verdict")

	return v
}

// Evaluate runs the full scoring core
func (e *Engine) Evaluate(ctx context.Context, r contracts.StockRecord, sentiment *contracts.SentimentScorecard) Result {
	value, growth := e.Scorecards(ctx, r)
	return Result{
		Value:   value,
		Growth:  growth,
		Verdict: e.Verdict(ctx, r.Symbol, value, growth, sentiment),
	}
}

func optionalLog(v *float64) interface{} {
	if v == nil {
		return "n/a"
	}
	return *v
}
