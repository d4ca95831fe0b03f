package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/eshaffer321/worklog-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// JobStatus represents the current state of a run job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job staleness thresholds
const (
	// DefaultJobStaleThreshold is how long a job can go without progress
	// updates before it is considered hung.
	DefaultJobStaleThreshold = 30 * time.Minute

	// DefaultJobMaxDuration is the maximum time a job can run before being
	// marked as failed.
	DefaultJobMaxDuration = 2 * time.Hour
)

var (
	ErrInvalidSource = errors.New("invalid activity source")
	ErrJobRunning    = errors.New("run already in progress")
	ErrJobNotFound   = errors.New("job not found")
)

// Runner executes one reconciliation run. reconcile.Service implements it.
type Runner interface {
	Run(ctx context.Context, opts reconcile.RunOptions) (*reconcile.RunResult, error)
}

// JobRequest holds parameters for starting a run.
type JobRequest struct {
	Source    string
	Window    worklog.Window
	Action    string
	MaxEvents int
}

// JobProgress holds the phase of a job.
type JobProgress struct {
	Phase      string // "pending", "reconciling", "completed", "failed", "cancelled"
	LastUpdate time.Time
}

// Job represents a running or finished run job.
type Job struct {
	ID          string
	Source      string
	Status      JobStatus
	Request     JobRequest
	StartedAt   time.Time
	CompletedAt *time.Time
	Progress    JobProgress
	Result      *reconcile.RunResult
	Error       error
	cancelFunc  context.CancelFunc
}

// JobService runs reconciliations in the background, at most one per
// activity source at a time.
type JobService struct {
	runner  Runner
	sources []string
	logger  *slog.Logger

	jobs      map[string]*Job
	jobsMutex sync.RWMutex

	// sourceOwners maps a source to the ID of the job holding it
	sourceOwners map[string]string
	locksMutex   sync.Mutex

	cleanupStop chan struct{}
	cleanupDone chan struct{}
}

// NewJobService creates a job service accepting the given activity sources.
func NewJobService(runner Runner, sources []string, logger *slog.Logger) *JobService {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobService{
		runner:      runner,
		sources:     sources,
		logger:      logger,
		jobs:        make(map[string]*Job),
		sourceOwners: make(map[string]string),
	}
}

// StartRun starts a new run job asynchronously.
// The job does not inherit the caller's context, so it survives the HTTP
// request that started it. Use Cancel to stop it.
func (s *JobService) StartRun(_ context.Context, req JobRequest) (*Job, error) {
	if !slices.Contains(s.sources, req.Source) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSource, req.Source)
	}
	now := time.Now()
	jobID := fmt.Sprintf("%s-%d", req.Source, now.UnixNano())
	if !s.tryLockSource(req.Source, jobID) {
		return nil, fmt.Errorf("%w for source %s", ErrJobRunning, req.Source)
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	job := &Job{
		ID:         jobID,
		Source:     req.Source,
		Status:     StatusPending,
		Request:    req,
		StartedAt:  now,
		cancelFunc: cancel,
		Progress:   JobProgress{Phase: "pending", LastUpdate: now},
	}

	s.jobsMutex.Lock()
	s.jobs[job.ID] = job
	snapshot := *job
	s.jobsMutex.Unlock()

	go s.runJob(jobCtx, job.ID, req)

	s.logger.Info("run job started",
		"job_id", job.ID,
		"source", req.Source,
		"period_start", req.Window.Period().Start,
		"period_end", req.Window.Period().End,
	)
	return &snapshot, nil
}

// GetJob returns a copy of a job.
func (s *JobService) GetJob(jobID string) (*Job, error) {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	copied := *job
	return &copied, nil
}

// ListActiveJobs returns pending and running jobs, newest first.
func (s *JobService) ListActiveJobs() []*Job {
	return s.list(func(j *Job) bool {
		return j.Status == StatusPending || j.Status == StatusRunning
	})
}

// ListAllJobs returns every job still held in memory, newest first.
func (s *JobService) ListAllJobs() []*Job {
	return s.list(func(*Job) bool { return true })
}

func (s *JobService) list(keep func(*Job) bool) []*Job {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if keep(job) {
			copied := *job
			jobs = append(jobs, &copied)
		}
	}
	slices.SortFunc(jobs, func(a, b *Job) int { return b.StartedAt.Compare(a.StartedAt) })
	return jobs
}

// Cancel cancels a pending or running job.
func (s *JobService) Cancel(jobID string) error {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if job.Status != StatusPending && job.Status != StatusRunning {
		return fmt.Errorf("job cannot be cancelled: status=%s", job.Status)
	}

	job.cancelFunc()
	now := time.Now()
	job.Status = StatusCancelled
	job.CompletedAt = &now
	job.Progress = JobProgress{Phase: "cancelled", LastUpdate: now}

	s.logger.Info("run job cancelled", "job_id", jobID)
	return nil
}

func (s *JobService) runJob(ctx context.Context, jobID string, req JobRequest) {
	defer s.unlockSource(req.Source, jobID)

	s.update(jobID, func(job *Job) {
		job.Status = StatusRunning
		job.Progress = JobProgress{Phase: "reconciling", LastUpdate: time.Now()}
	})

	result, err := s.runner.Run(ctx, reconcile.RunOptions{
		Source:    req.Source,
		Window:    req.Window,
		Action:    req.Action,
		MaxEvents: req.MaxEvents,
	})

	s.update(jobID, func(job *Job) {
		if job.Status == StatusCancelled || job.Status == StatusFailed {
			return
		}
		now := time.Now()
		job.CompletedAt = &now
		if err != nil {
			job.Status = StatusFailed
			job.Error = err
			job.Progress = JobProgress{Phase: "failed", LastUpdate: now}
			s.logger.Error("run job failed", "job_id", jobID, "error", err)
			return
		}
		job.Status = StatusCompleted
		job.Result = result
		job.Progress = JobProgress{Phase: "completed", LastUpdate: now}
		s.logger.Info("run job completed", "job_id", jobID, "run_id", result.RunID)
	})
}

func (s *JobService) update(jobID string, fn func(*Job)) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()
	if job, exists := s.jobs[jobID]; exists {
		fn(job)
	}
}

func (s *JobService) tryLockSource(source, jobID string) bool {
	s.locksMutex.Lock()
	defer s.locksMutex.Unlock()

	if _, held := s.sourceOwners[source]; held {
		return false
	}
	s.sourceOwners[source] = jobID
	return true
}

// unlockSource releases source only if jobID still owns it. A stale sweep
// may have handed the source to a newer job already.
func (s *JobService) unlockSource(source, jobID string) {
	s.locksMutex.Lock()
	defer s.locksMutex.Unlock()

	if s.sourceOwners[source] == jobID {
		delete(s.sourceOwners, source)
	}
}

// CleanupOldJobs removes finished jobs older than maxAge.
func (s *JobService) CleanupOldJobs(maxAge time.Duration) int {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, job := range s.jobs {
		if job.Status == StatusPending || job.Status == StatusRunning {
			continue
		}
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// MarkStaleJobsAsFailed fails jobs that ran longer than maxDuration or made
// no progress within staleThreshold, and releases their source locks.
func (s *JobService) MarkStaleJobsAsFailed(staleThreshold, maxDuration time.Duration) int {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	now := time.Now()
	marked := 0
	for id, job := range s.jobs {
		if job.Status != StatusRunning && job.Status != StatusPending {
			continue
		}

		var reason string
		switch {
		case now.Sub(job.StartedAt) > maxDuration:
			reason = fmt.Sprintf("exceeded max duration of %v", maxDuration)
		case now.Sub(job.Progress.LastUpdate) > staleThreshold:
			reason = fmt.Sprintf("no progress update for %v", now.Sub(job.Progress.LastUpdate).Round(time.Second))
		default:
			continue
		}

		if job.cancelFunc != nil {
			job.cancelFunc()
		}
		job.Status = StatusFailed
		job.CompletedAt = &now
		job.Error = fmt.Errorf("job marked as stale: %s", reason)
		job.Progress = JobProgress{Phase: "failed", LastUpdate: now}
		s.unlockSource(job.Source, id)

		s.logger.Warn("marked stale job as failed", "job_id", id, "source", job.Source, "reason", reason)
		marked++
	}
	return marked
}

// StartBackgroundCleanup periodically fails stale jobs and drops jobs
// finished more than a day ago. Stop it with StopBackgroundCleanup.
func (s *JobService) StartBackgroundCleanup(checkInterval time.Duration) {
	s.cleanupStop = make(chan struct{})
	s.cleanupDone = make(chan struct{})

	go func() {
		defer close(s.cleanupDone)

		ticker := time.NewTicker(checkInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.cleanupStop:
				return
			case <-ticker.C:
				if n := s.MarkStaleJobsAsFailed(DefaultJobStaleThreshold, DefaultJobMaxDuration); n > 0 {
					s.logger.Info("marked stale jobs as failed", "count", n)
				}
				if n := s.CleanupOldJobs(24 * time.Hour); n > 0 {
					s.logger.Debug("cleaned up old jobs", "count", n)
				}
			}
		}
	}()
}

// StopBackgroundCleanup stops the cleanup goroutine and waits for it.
func (s *JobService) StopBackgroundCleanup() {
	if s.cleanupStop == nil {
		return
	}
	close(s.cleanupStop)
	<-s.cleanupDone
}
