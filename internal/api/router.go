package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/investo/internal/api/handlers"
	"github.com/wonny/investo/pkg/logger"
	"github.com/wonny/investo/pkg/metrics"
)

// Handlers groups the endpoint handlers the router mounts
type Handlers struct {
	Analysis *handlers.AnalysisHandler
	Reports  *handlers.ReportHandler
	News     *handlers.NewsHandler
}

// NewRouter creates and configures the HTTP router.
// /metrics is mounted only when m is non-nil.
// ⭐ SSOT: routing is configured in this function only
func NewRouter(h Handlers, m *metrics.Recorder, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	// Analysis endpoints
	api.HandleFunc("/analyze/{ticker}", h.Analysis.Analyze).Methods("GET")
	api.HandleFunc("/reports/{ticker}", h.Analysis.CreateReport).Methods("POST")

	// Report files
	api.HandleFunc("/reports", h.Reports.List).Methods("GET")
	api.HandleFunc("/reports/{name}", h.Reports.Download).Methods("GET")

	// News
	api.HandleFunc("/news/global", h.News.Global).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "investo-api",
	})
}

// statusWriter captures the response status for the access log
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   sw.status,
				"duration": time.Since(start).String(),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
