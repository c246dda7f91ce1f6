package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/investo/internal/contracts"
	"github.com/wonny/investo/pkg/logger"
)

// Format is an output format
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

var (
	// ErrInvalidFilename is returned for names that are not generated reports
	ErrInvalidFilename = errors.New("invalid report filename")
	// ErrUnsupportedFormat is returned for formats other than html and pdf
	ErrUnsupportedFormat = errors.New("unsupported report format")
)

// ParseFormat accepts "html" or "pdf" in any case
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatHTML:
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Data is everything a report shows
type Data struct {
	Record       *contracts.StockRecord
	Value        contracts.ValueScorecard
	Growth       contracts.GrowthScorecard
	Sentiment    *contracts.SentimentScorecard
	Verdict      contracts.Verdict
	GlobalNews   []contracts.NewsItem
	ProfileName  string
	HistoryChart bool
	GeneratedAt  time.Time
}

// namePattern matches generated report files: investo_<SYMBOL>_<YYYY-MM-DD>_<id8>.<ext>
var namePattern = regexp.MustCompile(`^investo_[A-Z0-9.\-]{1,8}_\d{4}-\d{2}-\d{2}_[0-9a-f]{8}\.(html|pdf)$`)

// Filename builds a report file name
func Filename(symbol string, at time.Time, id string, f Format) string {
	return fmt.Sprintf("investo_%s_%s_%s.%s", symbol, at.Format("2006-01-02"), id, f)
}

// IsReportName reports whether name looks like a generated report
func IsReportName(name string) bool {
	return filepath.Base(name) == name && namePattern.MatchString(name)
}

// File describes one generated report on disk
type File struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Renderer writes reports into one directory
// ⭐ SSOT: report files are created and removed only here
type Renderer struct {
	dir    string
	logger *logger.Logger
	now    func() time.Time
	newID  func() string
}

// NewRenderer creates a renderer for dir
func NewRenderer(dir string, log *logger.Logger) *Renderer {
	return &Renderer{
		dir:    dir,
		logger: log.Component("report"),
		now:    time.Now,
		newID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		},
	}
}

// Dir returns the output directory
func (r *Renderer) Dir() string {
	return r.dir
}

// Render writes one report and returns its file name (not path)
func (r *Renderer) Render(data Data, format Format) (string, error) {
	if data.Record == nil {
		return "", errors.New("report: record is required")
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = r.now()
	}

	var write func(io.Writer, Data) error
	switch format {
	case FormatHTML:
		write = writeHTML
	case FormatPDF:
		write = writePDF
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	name := Filename(data.Record.Symbol, data.GeneratedAt, r.newID(), format)
	if err := r.writeFile(name, func(w io.Writer) error { return write(w, data) }); err != nil {
		return "", fmt.Errorf("render %s report: %w", format, err)
	}

	r.logger.WithFields(map[string]interface{}{
		"symbol": data.Record.Symbol,
		"format": string(format),
		"file":   name,
	}).Info("Report generated")
	return name, nil
}

// writeFile writes through a temp file and renames so readers never see partial reports
func (r *Renderer) writeFile(name string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(r.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(r.dir, name))
}

// Path resolves a report name inside the reports dir
func (r *Renderer) Path(name string) (string, error) {
	if !IsReportName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return filepath.Join(r.dir, name), nil
}

// Open opens a generated report for reading
func (r *Renderer) Open(name string) (*os.File, error) {
	path, err := r.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// List returns generated reports, newest first
func (r *Renderer) List() ([]File, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsReportName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, File{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// Cleanup deletes generated reports last modified more than olderThan ago.
// olderThan <= 0 deletes every generated report. Other files are left alone.
func (r *Renderer) Cleanup(olderThan time.Duration) (int, error) {
	files, err := r.List()
	if err != nil {
		return 0, err
	}

	cutoff := r.now().Add(-olderThan)
	deleted := 0
	var errs []error
	for _, f := range files {
		if olderThan > 0 && !f.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(r.dir, f.Name)); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}

	r.logger.WithFields(map[string]interface{}{
		"deleted":    deleted,
		"older_than": olderThan.String(),
	}).Info("Report cleanup complete")
	return deleted, errors.Join(errs...)
}
