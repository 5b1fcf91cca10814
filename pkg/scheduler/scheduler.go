package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"quantwp/pkg/envsync"
	"quantwp/pkg/logger"
)

// Job statuses
const (
	JobStatusScheduled = "scheduled"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// SettingsSyncJobName is the job that reapplies environment variables to stored settings
const SettingsSyncJobName = "env_settings_sync"

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobRunning  = errors.New("job already running")
)

// JobFunc is the work a scheduled job performs
type JobFunc func(ctx context.Context) error

// SettingsSyncer is satisfied by *envsync.Syncer
type SettingsSyncer interface {
	Sync(ctx context.Context) (*envsync.Result, error)
}

// Config holds scheduler configuration
type Config struct {
	Enabled  bool
	SyncCron string
	Syncer   SettingsSyncer
}

// TaskScheduler manages scheduled jobs using cron
type TaskScheduler struct {
	cron      *cron.Cron
	config    *Config
	ctx       context.Context
	jobs      map[string]*ScheduledJob
	jobsMutex sync.RWMutex
	started   bool
}

// ScheduledJob represents a scheduled job
type ScheduledJob struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Cron      string       `json:"cron"`
	NextRun   time.Time    `json:"next_run"`
	LastRun   time.Time    `json:"last_run"`
	LastError string       `json:"last_error,omitempty"`
	Runs      int          `json:"runs"`
	Status    string       `json:"status"`
	EntryID   cron.EntryID `json:"-"`

	run JobFunc
}

// NewTaskScheduler creates a scheduler and registers the settings sync job when enabled
func NewTaskScheduler(ctx context.Context, config *Config) (*TaskScheduler, error) {
	logger.Info("Initializing task scheduler")

	cl := cronLogger{}
	ts := &TaskScheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		config: config,
		ctx:    ctx,
		jobs:   make(map[string]*ScheduledJob),
	}

	if err := ts.loadConfiguredJobs(); err != nil {
		return nil, fmt.Errorf("failed to load configured jobs: %w", err)
	}

	logger.Info("Task scheduler initialized", zap.Int("job_count", len(ts.jobs)))
	return ts, nil
}

// Start runs the cron loop until the scheduler context is cancelled
func (ts *TaskScheduler) Start() error {
	logger.Info("Starting task scheduler")

	ts.cron.Start()

	ts.jobsMutex.Lock()
	ts.started = true
	for _, job := range ts.jobs {
		if err := ts.updateJobNextRunTime(job); err != nil {
			logger.Warn("Failed to update next run time after start",
				zap.String("job_name", job.Name),
				zap.Error(err))
		}
	}
	ts.jobsMutex.Unlock()

	ts.logScheduledJobs()

	<-ts.ctx.Done()
	logger.Info("Task scheduler context cancelled")

	return nil
}

// Shutdown gracefully shuts down the task scheduler
func (ts *TaskScheduler) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down task scheduler")

	cronCtx := ts.cron.Stop()

	select {
	case <-cronCtx.Done():
		logger.Info("All scheduled jobs completed")
	case <-ctx.Done():
		logger.Warn("Scheduler shutdown timeout, some jobs may still be running")
	}

	return nil
}

// AddJob schedules fn under the given cron expression
func (ts *TaskScheduler) AddJob(name, spec string, fn JobFunc) (*ScheduledJob, error) {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()

	job := &ScheduledJob{
		ID:     uuid.New().String(),
		Name:   name,
		Cron:   spec,
		Status: JobStatusScheduled,
		run:    fn,
	}

	entryID, err := ts.cron.AddFunc(spec, func() { ts.execute(job) })
	if err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}
	job.EntryID = entryID

	if err := ts.updateJobNextRunTime(job); err != nil {
		logger.Warn("Failed to update next run time", zap.String("job_name", job.Name), zap.Error(err))
	}

	ts.jobs[job.ID] = job

	logger.Info("Added scheduled job",
		zap.String("job_id", job.ID),
		zap.String("job_name", job.Name),
		zap.String("cron", job.Cron),
		zap.Time("next_run", job.NextRun),
	)

	return job.snapshot(), nil
}

// RemoveJob removes a scheduled job
func (ts *TaskScheduler) RemoveJob(jobID string) error {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()

	job, exists := ts.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	ts.cron.Remove(job.EntryID)
	delete(ts.jobs, jobID)

	logger.Info("Removed scheduled job", zap.String("job_id", jobID), zap.String("job_name", job.Name))
	return nil
}

// GetJobs returns a snapshot of all scheduled jobs
func (ts *TaskScheduler) GetJobs() []*ScheduledJob {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()

	jobs := make([]*ScheduledJob, 0, len(ts.jobs))
	for _, job := range ts.jobs {
		_ = ts.updateJobNextRunTime(job)
		jobs = append(jobs, job.snapshot())
	}
	return jobs
}

// GetJob returns a snapshot of one scheduled job
func (ts *TaskScheduler) GetJob(jobID string) (*ScheduledJob, error) {
	ts.jobsMutex.RLock()
	defer ts.jobsMutex.RUnlock()

	job, exists := ts.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return job.snapshot(), nil
}

// RunJob executes a job immediately, outside its schedule
func (ts *TaskScheduler) RunJob(jobID string) error {
	ts.jobsMutex.Lock()
	job, exists := ts.jobs[jobID]
	if !exists {
		ts.jobsMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	err := ts.markRunning(job)
	ts.jobsMutex.Unlock()
	if err != nil {
		return err
	}
	return ts.runMarked(job)
}

// GetStatus returns scheduler status
func (ts *TaskScheduler) GetStatus() map[string]interface{} {
	ts.jobsMutex.RLock()
	defer ts.jobsMutex.RUnlock()

	return map[string]interface{}{
		"enabled":   ts.config.Enabled,
		"running":   ts.started && ts.ctx.Err() == nil,
		"job_count": len(ts.jobs),
		"entries":   len(ts.cron.Entries()),
		"timestamp": time.Now().UTC(),
	}
}

func (ts *TaskScheduler) loadConfiguredJobs() error {
	if !ts.config.Enabled {
		logger.Info("Scheduled settings sync disabled")
		return nil
	}
	if ts.config.Syncer == nil {
		return errors.New("settings syncer is required when the scheduler is enabled")
	}

	syncer := ts.config.Syncer
	_, err := ts.AddJob(SettingsSyncJobName, ts.config.SyncCron, func(ctx context.Context) error {
		result, err := syncer.Sync(ctx)
		if err != nil {
			return err
		}
		logger.Info("Settings sync pass finished",
			zap.String("pass_id", result.PassID),
			zap.Int("changes", len(result.Changes)),
			zap.Bool("written", result.Written),
			zap.Bool("skipped", result.Skipped))
		return nil
	})
	return err
}

func (ts *TaskScheduler) execute(job *ScheduledJob) error {
	ts.jobsMutex.Lock()
	err := ts.markRunning(job)
	ts.jobsMutex.Unlock()
	if err != nil {
		logger.Warn("Skipping scheduled run", zap.String("job_name", job.Name), zap.Error(err))
		return err
	}
	return ts.runMarked(job)
}

// markRunning must be called with jobsMutex held
func (ts *TaskScheduler) markRunning(job *ScheduledJob) error {
	if job.Status == JobStatusRunning {
		return fmt.Errorf("%w: %s", ErrJobRunning, job.Name)
	}
	job.Status = JobStatusRunning
	job.LastRun = time.Now()
	job.Runs++
	return nil
}

func (ts *TaskScheduler) runMarked(job *ScheduledJob) error {
	logger.Info("Executing scheduled job", zap.String("job_id", job.ID), zap.String("job_name", job.Name))

	err := job.run(ts.ctx)

	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()
	if err != nil {
		logger.Error("Scheduled job failed", zap.String("job_name", job.Name), zap.Error(err))
		job.Status = JobStatusFailed
		job.LastError = err.Error()
		return err
	}
	job.Status = JobStatusCompleted
	job.LastError = ""
	return nil
}

func (ts *TaskScheduler) logScheduledJobs() {
	ts.jobsMutex.RLock()
	defer ts.jobsMutex.RUnlock()

	if len(ts.jobs) == 0 {
		logger.Info("No scheduled jobs configured")
		return
	}

	for _, job := range ts.jobs {
		logger.Info("Scheduled job",
			zap.String("job_name", job.Name),
			zap.String("cron", job.Cron),
			zap.Time("next_run", job.NextRun),
			zap.String("status", job.Status),
		)
	}
}

// updateJobNextRunTime must be called with jobsMutex held
func (ts *TaskScheduler) updateJobNextRunTime(job *ScheduledJob) error {
	for _, entry := range ts.cron.Entries() {
		if entry.ID == job.EntryID && !entry.Next.IsZero() {
			job.NextRun = entry.Next
			return nil
		}
	}

	// not started yet, compute from the expression
	schedule, err := cron.ParseStandard(job.Cron)
	if err != nil {
		return fmt.Errorf("failed to parse cron expression %s: %w", job.Cron, err)
	}
	job.NextRun = schedule.Next(time.Now())
	return nil
}

func (j *ScheduledJob) snapshot() *ScheduledJob {
	cp := *j
	cp.run = nil
	return &cp
}

// cronLogger routes cron's internal logging through zap
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Sugar.Debugw("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Sugar.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
