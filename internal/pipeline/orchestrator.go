package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/investo/internal/contracts"
	"github.com/wonny/investo/internal/external/finnhub"
	"github.com/wonny/investo/internal/profile"
	"github.com/wonny/investo/internal/report"
	"github.com/wonny/investo/internal/scoring"
	"github.com/wonny/investo/pkg/logger"
	"github.com/wonny/investo/pkg/metrics"
)

// Stage names, also used as the stage label of the duration histogram
const (
	StageCollect   = "collect"
	StageValue     = "value"
	StageGrowth    = "growth"
	StageSentiment = "sentiment"
	StageVerdict   = "verdict"
	StageRender    = "render"
)

// RecordCollector produces the merged stock record
type RecordCollector interface {
	Collect(ctx context.Context, symbol string) (*contracts.StockRecord, error)
	GlobalNews(ctx context.Context) ([]contracts.NewsItem, error)
}

// SentimentAnalyzer scores social sentiment; it never fails
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, symbol string) *contracts.SentimentScorecard
}

// ReportRenderer writes one report file
type ReportRenderer interface {
	Render(data report.Data, format report.Format) (string, error)
}

// Orchestrator runs one ticker through the whole analysis
// ⭐ SSOT: stage ordering lives here only
type Orchestrator struct {
	collector RecordCollector
	analyzer  SentimentAnalyzer
	engine    *scoring.Engine
	renderer  ReportRenderer
	profile   profile.Profile
	metrics   *metrics.Recorder
	logger    *logger.Logger
	now       func() time.Time
}

// RunConfig holds configuration for one run
type RunConfig struct {
	Symbol string
	Render bool
	// Formats overrides the profile's report formats when non-empty
	Formats []report.Format
}

// RunResult holds everything a run produced
type RunResult struct {
	Record          *contracts.StockRecord        `json:"record"`
	Value           contracts.ValueScorecard      `json:"value"`
	Growth          contracts.GrowthScorecard     `json:"growth"`
	Sentiment       *contracts.SentimentScorecard `json:"sentiment"`
	Verdict         contracts.Verdict             `json:"verdict"`
	Reports         []string                      `json:"reports,omitempty"`
	Duration        time.Duration                 `json:"-"`
	CompletedStages []string                      `json:"completed_stages"`
}

// NewOrchestrator creates an orchestrator. analyzer, renderer and m may be nil.
func NewOrchestrator(
	collector RecordCollector,
	analyzer SentimentAnalyzer,
	engine *scoring.Engine,
	renderer ReportRenderer,
	prof profile.Profile,
	m *metrics.Recorder,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		collector: collector,
		analyzer:  analyzer,
		engine:    engine,
		renderer:  renderer,
		profile:   prof,
		metrics:   m,
		logger:    log.Component("pipeline"),
		now:       time.Now,
	}
}

// Run executes collect → value → growth → sentiment → verdict → render.
// Only collect and render can fail; scoring always completes.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := o.now()
	result := &RunResult{CompletedStages: make([]string, 0, 6)}

	o.logger.WithFields(map[string]interface{}{
		"symbol": config.Symbol,
		"render": config.Render,
	}).Info("Starting analysis run")

	// Collect
	stageStart := o.now()
	record, err := o.collector.Collect(ctx, config.Symbol)
	if err != nil {
		return result, fmt.Errorf("collect failed: %w", err)
	}
	result.Record = record
	o.complete(result, StageCollect, stageStart)

	// Value
	stageStart = o.now()
	result.Value = o.engine.Value(ctx, *record)
	o.complete(result, StageValue, stageStart)

	// Growth
	stageStart = o.now()
	result.Growth = o.engine.Growth(ctx, *record)
	o.complete(result, StageGrowth, stageStart)

	// Sentiment
	stageStart = o.now()
	result.Sentiment = o.sentiment(ctx, record.Symbol)
	o.complete(result, StageSentiment, stageStart)

	// Verdict
	stageStart = o.now()
	result.Verdict = o.engine.Verdict(ctx, record.Symbol, result.Value, result.Growth, result.Sentiment)
	o.complete(result, StageVerdict, stageStart)
	o.metrics.RecordAnalysis(record.Symbol, result.Verdict.Label, result.Verdict.CompositeScore)

	// Render (optional)
	if config.Render {
		stageStart = o.now()
		reports, err := o.render(ctx, result, config.Formats)
		result.Reports = reports
		if err != nil {
			result.Duration = o.now().Sub(startTime)
			return result, fmt.Errorf("render failed: %w", err)
		}
		o.complete(result, StageRender, stageStart)
	}

	result.Duration = o.now().Sub(startTime)

	o.logger.WithFields(map[string]interface{}{
		"symbol":    record.Symbol,
		"label":     result.Verdict.Label,
		"composite": result.Verdict.CompositeScore,
		"reports":   result.Reports,
		"duration":  result.Duration.Seconds(),
	}).Info("Analysis run completed")

	return result, nil
}

func (o *Orchestrator) complete(result *RunResult, stage string, started time.Time) {
	o.metrics.ObserveStage(stage, o.now().Sub(started))
	result.CompletedStages = append(result.CompletedStages, stage)
}

func (o *Orchestrator) sentiment(ctx context.Context, symbol string) *contracts.SentimentScorecard {
	if o.analyzer == nil {
		return contracts.NeutralSentiment(symbol, "Sentiment analysis disabled.")
	}
	if s := o.analyzer.Analyze(ctx, symbol); s != nil {
		return s
	}
	return contracts.NeutralSentiment(symbol, "Sentiment unavailable.")
}

// render writes one report per format; names already written are returned on error
func (o *Orchestrator) render(ctx context.Context, result *RunResult, formats []report.Format) ([]string, error) {
	if o.renderer == nil {
		return nil, errors.New("no report renderer configured")
	}

	if len(formats) == 0 {
		for _, s := range o.profile.Report.Formats {
			f, err := report.ParseFormat(s)
			if err != nil {
				return nil, err
			}
			formats = append(formats, f)
		}
	}

	data := report.Data{
		Record:       result.Record,
		Value:        result.Value,
		Growth:       result.Growth,
		Sentiment:    result.Sentiment,
		Verdict:      result.Verdict,
		GlobalNews:   o.globalNews(ctx),
		ProfileName:  o.profile.Name,
		HistoryChart: o.profile.Report.HistoryChart,
		GeneratedAt:  o.now(),
	}

	names := make([]string, 0, len(formats))
	for _, f := range formats {
		name, err := o.renderer.Render(data, f)
		if err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// globalNews is best effort: reports render without it
func (o *Orchestrator) globalNews(ctx context.Context) []contracts.NewsItem {
	news, err := o.collector.GlobalNews(ctx)
	switch {
	case errors.Is(err, finnhub.ErrNoAPIKey):
		o.logger.Debug("Global news skipped: no Finnhub API key")
	case err != nil:
		o.logger.WithError(err).Warn("Global news unavailable")
	}
	return news
}
