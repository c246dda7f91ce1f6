package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investo/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int
	calls    int
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	j.calls++
	if j.calls <= j.failures {
		return errors.New("transient")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	return New(logger.NewNop(), WithRetry(2, time.Millisecond))
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "0 0 3 * * *"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))
	assert.Equal(t, []string{"a", "b"}, s.Jobs())

	assert.Error(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}), "duplicate")
	assert.Error(t, s.AddJob(&fakeJob{name: "c", schedule: "not a schedule"}))
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.Jobs())
	assert.Error(t, s.RemoveJob("a"))

	_, err := s.History("a")
	assert.NoError(t, err, "history survives removal")
}

func TestRunJob_Retries(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		attempts int
		success  bool
	}{
		{"first try", 0, 1, true},
		{"recovers", 2, 3, true},
		{"exhausted", 5, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler()
			job := &fakeJob{name: "j", schedule: "@daily", failures: tt.failures}
			require.NoError(t, s.AddJob(job))

			result, err := s.RunJob(context.Background(), "j")
			require.NoError(t, err)
			assert.Equal(t, tt.attempts, result.Attempts)
			assert.Equal(t, tt.attempts, job.calls)
			assert.Equal(t, tt.success, result.Success)
			if !tt.success {
				assert.Equal(t, "transient", result.Error)
			}

			history, err := s.History("j")
			require.NoError(t, err)
			require.Len(t, history.Results, 1)
		})
	}
}

func TestRunJob_CancelledStopsRetrying(t *testing.T) {
	s := New(logger.NewNop(), WithRetry(3, time.Hour))
	job := &fakeJob{name: "j", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.RunJob(ctx, "j")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, job.calls)
	assert.Contains(t, result.Error, "retries aborted")
}

func TestRunJob_Unknown(t *testing.T) {
	_, err := newTestScheduler().RunJob(context.Background(), "missing")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "ok", schedule: "@daily"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "bad", schedule: "@daily", failures: 100}))

	_, _ = s.RunJob(context.Background(), "ok")
	_, _ = s.RunJob(context.Background(), "ok")
	_, _ = s.RunJob(context.Background(), "bad")

	stats := s.Stats()
	require.Len(t, stats, 2)

	ok := stats["ok"]
	assert.Equal(t, 2, ok.TotalRuns)
	assert.Equal(t, 1.0, ok.SuccessRate)
	assert.NotNil(t, ok.LastSuccess)
	assert.Nil(t, ok.LastFailure)

	bad := stats["bad"]
	assert.Equal(t, 1, bad.FailureCount)
	assert.NotNil(t, bad.LastFailure)
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	s.Start()
	stats := s.Stats()
	s.Stop()

	assert.NotNil(t, stats["a"].NextRun)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+10; i++ {
		h.Add(JobResult{JobName: "j", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Len(t, h.Latest(5), 5)
	assert.Empty(t, h.Latest(0))
	assert.Len(t, h.Failed(), historyLimit/2)
	assert.Equal(t, 0.5, h.SuccessRate())
	assert.Equal(t, 0.0, (&JobHistory{}).SuccessRate())
}
