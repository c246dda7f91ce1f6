package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/investo/internal/collector"
	"github.com/wonny/investo/internal/contracts"
	"github.com/wonny/investo/internal/pipeline"
	"github.com/wonny/investo/internal/report"
	"github.com/wonny/investo/pkg/logger"
)

// Runner runs one analysis
type Runner interface {
	Run(ctx context.Context, config pipeline.RunConfig) (*pipeline.RunResult, error)
}

// AnalysisHandler serves analyses and report generation
// ⭐ SSOT: analysis API handlers live in this struct only
type AnalysisHandler struct {
	runner Runner
	logger *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(runner Runner, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		runner: runner,
		logger: log,
	}
}

// AnalyzeResponse is the JSON body of GET /api/analyze/{ticker}
type AnalyzeResponse struct {
	Symbol     string `json:"symbol"`
	DurationMs int64  `json:"duration_ms"`
	*pipeline.RunResult
}

// Analyze runs the analysis without rendering
// GET /api/analyze/{ticker}
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	result, err := h.runner.Run(r.Context(), pipeline.RunConfig{Symbol: ticker})
	if err != nil {
		h.respondRunError(w, ticker, err)
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{
		Symbol:     result.Record.Symbol,
		DurationMs: result.Duration.Milliseconds(),
		RunResult:  result,
	})
}

// ReportLink points at one generated report
type ReportLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CreateReportResponse is the JSON body of POST /api/reports/{ticker}
type CreateReportResponse struct {
	Symbol    string            `json:"symbol"`
	Verdict   contracts.Verdict `json:"verdict"`
	Reports   []ReportLink      `json:"reports"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateReport runs the analysis and renders it
// POST /api/reports/{ticker}?format=html|pdf
func (h *AnalysisHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	config := pipeline.RunConfig{Symbol: ticker, Render: true}
	if raw := r.URL.Query().Get("format"); raw != "" {
		format, err := report.ParseFormat(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "format must be html or pdf")
			return
		}
		config.Formats = []report.Format{format}
	}

	result, err := h.runner.Run(r.Context(), config)
	if err != nil {
		h.respondRunError(w, ticker, err)
		return
	}

	links := make([]ReportLink, 0, len(result.Reports))
	for _, name := range result.Reports {
		links = append(links, ReportLink{Name: name, URL: "/api/reports/" + name})
	}

	respondJSON(w, http.StatusCreated, CreateReportResponse{
		Symbol:    result.Record.Symbol,
		Verdict:   result.Verdict,
		Reports:   links,
		CreatedAt: time.Now().UTC(),
	})
}

func (h *AnalysisHandler) respondRunError(w http.ResponseWriter, ticker string, err error) {
	switch {
	case errors.Is(err, collector.ErrInvalidTicker):
		respondError(w, http.StatusBadRequest, "Invalid ticker symbol")
	case errors.Is(err, collector.ErrTickerNotFound):
		respondError(w, http.StatusNotFound, "Ticker not found")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "Upstream data sources timed out")
	default:
		h.logger.WithError(err).WithField("ticker", ticker).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, "Analysis failed")
	}
}
