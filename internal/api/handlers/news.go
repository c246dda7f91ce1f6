package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/wonny/investo/internal/contracts"
	"github.com/wonny/investo/internal/external/finnhub"
	"github.com/wonny/investo/pkg/logger"
)

// NewsSource supplies market-wide headlines
type NewsSource interface {
	GlobalNews(ctx context.Context) ([]contracts.NewsItem, error)
}

// NewsHandler serves global headlines
type NewsHandler struct {
	source NewsSource
	logger *logger.Logger
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(source NewsSource, log *logger.Logger) *NewsHandler {
	return &NewsHandler{source: source, logger: log}
}

// Global returns market-wide headlines
// GET /api/news/global
func (h *NewsHandler) Global(w http.ResponseWriter, r *http.Request) {
	news, err := h.source.GlobalNews(r.Context())
	switch {
	case errors.Is(err, finnhub.ErrNoAPIKey):
		respondError(w, http.StatusServiceUnavailable, "News requires a Finnhub API key")
		return
	case err != nil:
		h.logger.WithError(err).Warn("Failed to fetch global news")
		respondError(w, http.StatusBadGateway, "News source unavailable")
		return
	}

	if news == nil {
		news = []contracts.NewsItem{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"news":  news,
		"count": len(news),
	})
}
