package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/wonny/investo/internal/report"
	"github.com/wonny/investo/pkg/logger"
)

// ReportStore reads generated reports
type ReportStore interface {
	Open(name string) (*os.File, error)
	List() ([]report.File, error)
}

// ReportHandler serves generated report files
type ReportHandler struct {
	store  ReportStore
	logger *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(store ReportStore, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		store:  store,
		logger: log,
	}
}

// List returns generated reports, newest first
// GET /api/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.store.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list reports")
		respondError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}
	if files == nil {
		files = []report.File{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reports": files,
		"count":   len(files),
	})
}

// Download streams one generated report
// GET /api/reports/{name}
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	file, err := h.store.Open(name)
	switch {
	case errors.Is(err, report.ErrInvalidFilename):
		respondError(w, http.StatusBadRequest, "Invalid report name")
		return
	case errors.Is(err, os.ErrNotExist):
		respondError(w, http.StatusNotFound, "Report not found")
		return
	case err != nil:
		h.logger.WithError(err).WithField("name", name).Error("Failed to open report")
		respondError(w, http.StatusInternalServerError, "Failed to open report")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to open report")
		return
	}

	if filepath.Ext(name) == ".pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	http.ServeContent(w, r, name, info.ModTime(), file)
}
