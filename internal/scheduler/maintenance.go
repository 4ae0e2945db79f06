package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
)

// Enqueuer hands a task to the background queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// ErrUnknownJob is returned by RunNow for names that were never added.
var ErrUnknownJob = errors.New("unknown maintenance job")

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule checks a five-field cron expression (or a descriptor such as "@daily").
func ValidateSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// GetNextRunTime returns the next activation of schedule after now.
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := scheduleParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}

// JobInfo describes a registered job. NextRun is nil while the scheduler is stopped.
type JobInfo struct {
	Name     string     `json:"name"`
	Schedule string     `json:"schedule"`
	NextRun  *time.Time `json:"next_run,omitempty"`
}

type job struct {
	name     string
	schedule string
	task     backlite.Task
	entryID  cron.EntryID
}

// MaintenanceScheduler enqueues periodic maintenance tasks (backups, audit
// cleanup). The work itself runs on the task queue, not on the cron goroutine.
type MaintenanceScheduler struct {
	enqueuer Enqueuer

	cron       *cron.Cron
	jobs       []*job
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a new scheduler instance
func NewMaintenanceScheduler(enqueuer Enqueuer) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		enqueuer: enqueuer,
		cron:     cron.New(cron.WithParser(scheduleParser)),
	}
}

// Add registers a task to be enqueued on schedule. Jobs must be added before Start.
func (s *MaintenanceScheduler) Add(name, schedule string, task backlite.Task) error {
	if err := ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", schedule, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot add %s: scheduler already running", name)
	}

	j := &job{name: name, schedule: schedule, task: task}
	entryID, err := s.cron.AddFunc(schedule, func() {
		_, _ = s.enqueue(j)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	j.entryID = entryID
	s.jobs = append(s.jobs, j)
	return nil
}

// Start begins the scheduler. With no jobs it does nothing.
func (s *MaintenanceScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}
	if len(s.jobs) == 0 {
		log.Printf("Maintenance scheduler: no jobs configured")
		return
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	for _, j := range s.jobs {
		nextRun, _ := GetNextRunTime(j.schedule)
		log.Printf("Maintenance scheduler: %s scheduled '%s'. Next run: %v", j.name, j.schedule, nextRun)
	}

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()
}

// Stop gracefully stops the scheduler
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Maintenance scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the named job fires next. It is nil while stopped
// or for unknown jobs.
func (s *MaintenanceScheduler) NextRun(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, j := range s.jobs {
		if j.name != name {
			continue
		}
		entry := s.cron.Entry(j.entryID)
		if entry.Valid() {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// Jobs lists registered jobs in the order they were added.
func (s *MaintenanceScheduler) Jobs() []JobInfo {
	s.mu.RLock()
	names := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		names = append(names, JobInfo{Name: j.name, Schedule: j.schedule})
	}
	s.mu.RUnlock()

	for i := range names {
		names[i].NextRun = s.NextRun(names[i].Name)
	}
	return names
}

// RunNow enqueues the named job immediately and returns the task id.
func (s *MaintenanceScheduler) RunNow(name string) (string, error) {
	s.mu.RLock()
	var found *job
	for _, j := range s.jobs {
		if j.name == name {
			found = j
			break
		}
	}
	s.mu.RUnlock()

	if found == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
	return s.enqueue(found)
}

func (s *MaintenanceScheduler) enqueue(j *job) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	id, err := s.enqueuer.Enqueue(ctx, j.task)
	if err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue %s: %v", j.name, err)
		return "", fmt.Errorf("enqueue %s: %w", j.name, err)
	}
	log.Printf("Maintenance scheduler: enqueued %s (task %s)", j.name, id)
	return id, nil
}
