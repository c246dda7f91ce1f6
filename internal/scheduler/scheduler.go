package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/investo/pkg/logger"
)

// Scheduler manages scheduled jobs
// ⭐ SSOT: scheduling is managed by this scheduler only
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]entry
	history map[string]*JobHistory
	mu      sync.RWMutex

	// ctx is cancelled by Stop so retry waits end early
	ctx    context.Context
	cancel context.CancelFunc

	maxRetries int
	retryDelay time.Duration
}

type entry struct {
	job Job
	id  cron.EntryID
}

// Option customises a Scheduler
type Option func(*Scheduler)

// WithRetry sets how often a failed job is retried and the pause between attempts
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(s *Scheduler) {
		s.maxRetries = maxRetries
		s.retryDelay = delay
	}
}

// New creates a new scheduler. Schedules use a leading seconds field.
func New(log *logger.Logger, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		logger:     log.Component("scheduler"),
		jobs:       make(map[string]entry),
		history:    make(map[string]*JobHistory),
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: 3,
		retryDelay: 1 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobName := job.Name()
	if _, exists := s.jobs[jobName]; exists {
		return fmt.Errorf("job %s already exists", jobName)
	}

	id, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(s.ctx, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", jobName, err)
	}

	s.jobs[jobName] = entry{job: job, id: id}
	s.history[jobName] = &JobHistory{}

	s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// RemoveJob unschedules a job. Its history is kept.
func (s *Scheduler) RemoveJob(jobName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.jobs[jobName]
	if !exists {
		return fmt.Errorf("job %s not found", jobName)
	}

	s.cron.Remove(e.id)
	delete(s.jobs, jobName)
	s.logger.WithField("job", jobName).Info("Job removed from scheduler")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// RunJob runs a job immediately, outside of its schedule, and waits for it
func (s *Scheduler) RunJob(ctx context.Context, jobName string) (JobResult, error) {
	s.mu.RLock()
	e, exists := s.jobs[jobName]
	s.mu.RUnlock()

	if !exists {
		return JobResult{}, fmt.Errorf("job %s not found", jobName)
	}
	return s.runJob(ctx, e.job), nil
}

// runJob executes a job with retry logic and records the result
func (s *Scheduler) runJob(ctx context.Context, job Job) JobResult {
	jobName := job.Name()
	startTime := time.Now()

	s.logger.WithField("job", jobName).Info("Job started")

	var lastErr error
	attempts := 0
retry:
	for {
		attempts++
		lastErr = job.Run(ctx)
		if lastErr == nil {
			break
		}

		s.logger.WithError(lastErr).WithFields(map[string]interface{}{
			"job":     jobName,
			"attempt": attempts,
		}).Warn("Job execution failed")

		if attempts > s.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			lastErr = fmt.Errorf("%w (retries aborted: %v)", lastErr, ctx.Err())
			break retry
		case <-time.After(s.retryDelay):
		}
	}

	endTime := time.Now()
	result := JobResult{
		JobName:   jobName,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime),
		Attempts:  attempts,
		Success:   lastErr == nil,
	}
	if lastErr != nil {
		result.Error = lastErr.Error()
	}

	s.mu.Lock()
	if history, exists := s.history[jobName]; exists {
		history.Add(result)
	}
	s.mu.Unlock()

	log := s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"duration": result.Duration.String(),
		"attempts": attempts,
	})
	if result.Success {
		log.Info("Job completed successfully")
	} else {
		log.WithError(lastErr).Error("Job failed after all retries")
	}

	return result
}

// History returns the history for a specific job
func (s *Scheduler) History(jobName string) (*JobHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, exists := s.history[jobName]
	if !exists {
		return nil, fmt.Errorf("job %s not found", jobName)
	}

	return history, nil
}

// Jobs returns the names of all scheduled jobs, sorted
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for jobName := range s.jobs {
		names = append(names, jobName)
	}
	sort.Strings(names)

	return names
}

// Stats returns statistics for all scheduled jobs
func (s *Scheduler) Stats() map[string]JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]JobStats, len(s.jobs))
	for jobName, e := range s.jobs {
		history := s.history[jobName]
		failed := history.Failed()

		st := JobStats{
			JobName:      jobName,
			Schedule:     e.job.Schedule(),
			TotalRuns:    len(history.Results),
			SuccessCount: len(history.Results) - len(failed),
			FailureCount: len(failed),
			SuccessRate:  history.SuccessRate(),
		}

		if latest := history.Latest(1); len(latest) > 0 {
			last := latest[0]
			st.LastRun = &last.StartTime
			if last.Success {
				st.LastSuccess = &last.StartTime
			} else {
				st.LastFailure = &last.StartTime
			}
		}
		if next := s.cron.Entry(e.id).Next; !next.IsZero() {
			st.NextRun = &next
		}

		stats[jobName] = st
	}

	return stats
}

// JobStats represents statistics for a job
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
	NextRun      *time.Time `json:"next_run,omitempty"`
}
