package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled job
// ⭐ SSOT: the scheduled job interface is defined here only
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron expression, seconds field first.
	// Examples: "0 0 3 * * *" (every day at 03:00), "@hourly"
	Schedule() string
}

// historyLimit bounds the results kept per job
const historyLimit = 100

// JobResult represents the result of a job execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory stores job execution history
type JobHistory struct {
	Results []JobResult
}

// Add appends a result, keeping only the latest historyLimit
func (h *JobHistory) Add(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > historyLimit {
		h.Results = h.Results[len(h.Results)-historyLimit:]
	}
}

// Latest returns the latest n results, oldest first
func (h *JobHistory) Latest(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	if n <= 0 {
		return []JobResult{}
	}
	return h.Results[len(h.Results)-n:]
}

// Failed returns all failed results
func (h *JobHistory) Failed() []JobResult {
	failed := make([]JobResult, 0)
	for _, result := range h.Results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// SuccessRate returns the success rate (0.0 - 1.0)
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}

	successCount := 0
	for _, result := range h.Results {
		if result.Success {
			successCount++
		}
	}
	return float64(successCount) / float64(len(h.Results))
}
