package jobs

import (
	"context"
	"time"

	"github.com/wonny/investo/pkg/logger"
)

// ReportCleaner deletes generated reports older than a cutoff
type ReportCleaner interface {
	Cleanup(olderThan time.Duration) (int, error)
}

// ReportCleanupJob purges reports past their retention period
type ReportCleanupJob struct {
	cleaner   ReportCleaner
	retention time.Duration
	schedule  string
	logger    *logger.Logger
}

// NewReportCleanupJob creates a new report cleanup job
func NewReportCleanupJob(cleaner ReportCleaner, retentionDays int, schedule string, log *logger.Logger) *ReportCleanupJob {
	return &ReportCleanupJob{
		cleaner:   cleaner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *ReportCleanupJob) Name() string {
	return "report_cleanup"
}

// Schedule returns the cron schedule
func (j *ReportCleanupJob) Schedule() string {
	return j.schedule
}

// Run deletes expired reports
func (j *ReportCleanupJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deleted, err := j.cleaner.Cleanup(j.retention)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"deleted":        deleted,
		"retention_days": int(j.retention.Hours() / 24),
	}).Info("Report cleanup completed")
	return nil
}
