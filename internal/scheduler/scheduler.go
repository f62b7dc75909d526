package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusScheduled JobStatus = "scheduled"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobInfo contains information about a scheduled job.
type JobInfo struct {
	ID         string
	Name       string
	Schedule   string
	Status     JobStatus
	LastRun    time.Time
	RunCount   int
	ErrorCount int
	LastError  string
}

// JobFunc represents a function that can be scheduled.
type JobFunc func(ctx context.Context) error

type job struct {
	info   JobInfo
	gocron gocron.Job
}

// Scheduler runs background jobs on cron schedules.
type Scheduler struct {
	gocron gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]*job
}

// New creates a new scheduler.
func New() (*Scheduler, error) {
	gocronScheduler, err := gocron.NewScheduler(gocron.WithLogger(newLogger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		gocron: gocronScheduler,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*job),
	}, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	log.Info("Starting job scheduler")
	s.gocron.Start()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, j := range s.jobs {
		if nextRun, err := j.gocron.NextRun(); err == nil {
			log.Debug("Next run time for job", "id", id, "nextRun", nextRun)
		}
	}
}

// Stop cancels running jobs and stops the scheduler.
func (s *Scheduler) Stop() error {
	log.Info("Stopping job scheduler")
	s.cancel()
	return s.gocron.Shutdown()
}

// AddCronJob adds a job running on a 5 field cron schedule.
// Singleton jobs never run concurrently with themselves.
func (s *Scheduler) AddCronJob(id, name, schedule string, jobFunc JobFunc, singleton bool) error {
	var opts []gocron.JobOption
	if singleton {
		opts = append(opts, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	}
	opts = append(opts, gocron.WithName(name))

	gj, err := s.gocron.NewJob(gocron.CronJob(schedule, false), gocron.NewTask(s.wrapJobFunc(id, jobFunc)), opts...)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}

	s.mu.Lock()
	s.jobs[id] = &job{
		info: JobInfo{
			ID:       id,
			Name:     name,
			Schedule: schedule,
			Status:   JobStatusScheduled,
		},
		gocron: gj,
	}
	s.mu.Unlock()

	log.Info("Added job to scheduler", "id", id, "name", name, "schedule", schedule, "singleton", singleton)
	return nil
}

// RunJobNow manually triggers a job to run immediately.
func (s *Scheduler) RunJobNow(id string) error {
	s.mu.RLock()
	j, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}

	log.Info("Manually triggering job", "id", id, "name", j.info.Name)
	if err := j.gocron.RunNow(); err != nil {
		return fmt.Errorf("failed to trigger job %s: %w", id, err)
	}
	return nil
}

// GetJob returns a snapshot of a job's information.
func (s *Scheduler) GetJob(id string) (JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return JobInfo{}, false
	}
	return j.info, true
}

// wrapJobFunc wraps a job function to update job statistics.
func (s *Scheduler) wrapJobFunc(id string, jobFunc JobFunc) func() {
	return func() {
		s.update(id, func(info *JobInfo) {
			info.Status = JobStatusRunning
			info.LastRun = time.Now()
			info.RunCount++
		})

		log.Info("Starting job", "id", id)
		start := time.Now()
		err := jobFunc(s.ctx)

		s.update(id, func(info *JobInfo) {
			if err != nil {
				info.Status = JobStatusFailed
				info.ErrorCount++
				info.LastError = err.Error()
				return
			}
			info.Status = JobStatusCompleted
			info.LastError = ""
		})

		if err != nil {
			log.Error("Job failed", "id", id, "error", err)
			return
		}
		log.Info("Job completed", "id", id, "duration", time.Since(start))
	}
}

func (s *Scheduler) update(id string, fn func(info *JobInfo)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		fn(&j.info)
	}
}
