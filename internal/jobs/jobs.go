// Package jobs runs the server's scheduled work: the nightly daily summary
// snapshot and, for SQLite databases, the rotating backup.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/julianstephens/sanctuary/internal/backup"
	"github.com/julianstephens/sanctuary/internal/logger"
	"github.com/julianstephens/sanctuary/internal/metrics"
	"github.com/julianstephens/sanctuary/internal/service"
)

const (
	JobDailySummary = "daily_summary"
	JobBackup       = "backup"

	jobTimeout = 5 * time.Minute
)

// Config holds the cron expressions. An empty expression disables the job.
type Config struct {
	DailySummary string
	Backup       string
}

type Runner struct {
	scheduler gocron.Scheduler
	svc       *service.Service
	backups   *backup.Manager
	metrics   *metrics.Metrics
}

// New registers the configured jobs in the service clock's zone. backups may
// be nil, in which case the backup job is skipped.
func New(svc *service.Service, backups *backup.Manager, m *metrics.Metrics, cfg Config) (*Runner, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(svc.Clock().Location()))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	r := &Runner{scheduler: s, svc: svc, backups: backups, metrics: m}

	if cfg.DailySummary != "" {
		if err := r.register(JobDailySummary, cfg.DailySummary, r.RunDailySummary); err != nil {
			_ = s.Shutdown()
			return nil, err
		}
	}
	if cfg.Backup != "" && backups != nil {
		if err := r.register(JobBackup, cfg.Backup, r.RunBackup); err != nil {
			_ = s.Shutdown()
			return nil, err
		}
	}
	return r, nil
}

func (r *Runner) register(name, expr string, fn func(context.Context) error) error {
	_, err := r.scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(func() { r.run(name, fn) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule %s (%q): %w", name, expr, err)
	}
	logger.Info("Scheduled job", "job", name, "cron", expr)
	return nil
}

func (r *Runner) run(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	r.metrics.RecordJob(name, time.Since(start), err)
	if err != nil {
		logger.Error("Scheduled job failed", "job", name, "error", err)
		return
	}
	logger.Debug("Scheduled job finished", "job", name, "took", time.Since(start))
}

// Names lists the registered jobs
func (r *Runner) Names() []string {
	jobs := r.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

func (r *Runner) Start() {
	r.scheduler.Start()
}

// Stop waits for running jobs to finish
func (r *Runner) Stop() error {
	return r.scheduler.Shutdown()
}

// RunDailySummary snapshots today's summary
func (r *Runner) RunDailySummary(ctx context.Context) error {
	sum, err := r.svc.Snapshot(ctx, "")
	if err != nil {
		return err
	}
	logger.Info("Daily summary saved", "date", sum.Date, "anchors", sum.AnchorsDone, "tasks", sum.TasksDone)
	return nil
}

func (r *Runner) RunBackup(ctx context.Context) error {
	if r.backups == nil {
		return nil
	}
	_, err := r.backups.Create(ctx)
	return err
}
