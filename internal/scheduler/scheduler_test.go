package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wonny/quotecert/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingJob struct {
	name     string
	failures int32
	calls    atomic.Int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return "@every 1h" }

func (j *countingJob) Run(context.Context) error {
	if n := j.calls.Add(1); n <= j.failures {
		return errors.New("transient failure")
	}
	return nil
}

func newTestScheduler(opts ...Option) *Scheduler {
	opts = append([]Option{WithRetry(2, time.Millisecond)}, opts...)
	return New(logger.Nop(), opts...)
}

func TestAddJob_RejectsDuplicatesAndBadSchedules(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&countingJob{name: "a"}))
	assert.Error(t, s.AddJob(&countingJob{name: "a"}))
	assert.Error(t, s.AddJob(badScheduleJob{}))

	assert.Equal(t, []string{"a"}, s.GetAllJobs())
}

type badScheduleJob struct{}

func (badScheduleJob) Name() string              { return "bad" }
func (badScheduleJob) Schedule() string          { return "not a cron" }
func (badScheduleJob) Run(context.Context) error { return nil }

func TestRunNow_RetriesThenSucceeds(t *testing.T) {
	s := newTestScheduler()
	job := &countingJob{name: "flaky", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int32(3), job.calls.Load())

	stats := s.GetJobStats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	require.NotNil(t, stats.LastSuccess)
	assert.Nil(t, stats.LastFailure)
}

func TestRunNow_FailsAfterRetries(t *testing.T) {
	s := newTestScheduler()
	job := &countingJob{name: "broken", failures: 100}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "transient failure")
	assert.Equal(t, int32(3), job.calls.Load())

	history, err := s.GetJobHistory("broken")
	require.NoError(t, err)
	assert.Len(t, history.GetFailedResults(), 1)
	assert.Equal(t, 0.0, history.GetSuccessRate())
}

func TestRunNow_StopsRetryingOnCancel(t *testing.T) {
	s := New(logger.Nop(), WithRetry(5, time.Hour))
	job := &countingJob{name: "broken", failures: 100}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	result, err := s.RunNow(ctx, "broken")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, context.Canceled.Error())
	assert.Equal(t, int32(1), job.calls.Load())
}

func TestRunNow_UnknownJob(t *testing.T) {
	_, err := newTestScheduler().RunNow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&countingJob{name: "a"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Empty(t, s.cron.Entries())
	assert.Error(t, s.RemoveJob("a"))
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&countingJob{name: "a"}))
	s.Start()
	s.Stop()
}

func TestJobHistory_KeepsLatest(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+5; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Len(t, h.GetLatestResults(1000), maxHistory)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 0.01)
}
