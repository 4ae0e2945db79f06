package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopTask struct {
	Name string `json:"name"`
}

func (t noopTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{Name: "noop", MaxAttempts: 1}
}

type recordingEnqueuer struct {
	mu    sync.Mutex
	tasks []backlite.Task
	err   error
}

func (r *recordingEnqueuer) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.tasks = append(r.tasks, task)
	return "task-1", nil
}

func (r *recordingEnqueuer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func TestValidateSchedule(t *testing.T) {
	valid := []string{"0 3 * * *", "*/15 * * * *", "0 0 * * 0", "@daily", "@every 1h"}
	for _, schedule := range valid {
		assert.NoError(t, ValidateSchedule(schedule), schedule)
	}

	invalid := []string{"", "every day", "0 3 * *", "61 * * * *", "* * * * * *"}
	for _, schedule := range invalid {
		assert.Error(t, ValidateSchedule(schedule), schedule)
	}
}

func TestGetNextRunTime(t *testing.T) {
	next, err := GetNextRunTime("0 3 * * *")
	require.NoError(t, err)
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())

	_, err = GetNextRunTime("bogus")
	assert.Error(t, err)
}

func TestMaintenanceScheduler_AddRejectsInvalidSchedule(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingEnqueuer{})

	err := s.Add("backup", "not a schedule", noopTask{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup")
}

func TestMaintenanceScheduler_StartStop(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingEnqueuer{})
	require.NoError(t, s.Add("backup", "0 3 * * *", noopTask{Name: "backup"}))

	s.Start(context.Background())
	assert.True(t, s.IsRunning())

	next := s.NextRun("backup")
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))
	assert.Nil(t, s.NextRun("unknown"))

	assert.Error(t, s.Add("late", "@daily", noopTask{}), "jobs cannot be added while running")

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRun("backup"))
}

func TestMaintenanceScheduler_StartWithoutJobs(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingEnqueuer{})
	s.Start(context.Background())
	assert.False(t, s.IsRunning())
}

func TestMaintenanceScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingEnqueuer{})
	require.NoError(t, s.Add("backup", "@daily", noopTask{}))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.True(t, s.IsRunning())

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestMaintenanceScheduler_RunNow(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	s := NewMaintenanceScheduler(enqueuer)
	require.NoError(t, s.Add("backup", "@daily", noopTask{Name: "backup"}))

	id, err := s.RunNow("backup")
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)
	assert.Equal(t, 1, enqueuer.count())
	assert.Equal(t, noopTask{Name: "backup"}, enqueuer.tasks[0])

	_, err = s.RunNow("missing")
	assert.ErrorIs(t, err, ErrUnknownJob)

	enqueuer.err = errors.New("queue closed")
	_, err = s.RunNow("backup")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownJob)
	assert.Equal(t, 1, enqueuer.count())
}

func TestMaintenanceScheduler_Jobs(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingEnqueuer{})
	require.NoError(t, s.Add("backup", "0 3 * * *", noopTask{}))
	require.NoError(t, s.Add("audit-cleanup", "@daily", noopTask{}))

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "backup", jobs[0].Name)
	assert.Equal(t, "0 3 * * *", jobs[0].Schedule)
	assert.Nil(t, jobs[0].NextRun, "no next run before Start")
	assert.Equal(t, "audit-cleanup", jobs[1].Name)

	s.Start(context.Background())
	defer s.Stop()

	for _, j := range s.Jobs() {
		require.NotNil(t, j.NextRun, j.Name)
		assert.True(t, j.NextRun.After(time.Now()), j.Name)
	}
}

func TestMaintenanceScheduler_FiresOnSchedule(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	s := NewMaintenanceScheduler(enqueuer)
	require.NoError(t, s.Add("backup", "@every 1s", noopTask{}))

	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool { return enqueuer.count() > 0 }, 3*time.Second, 50*time.Millisecond)
}
