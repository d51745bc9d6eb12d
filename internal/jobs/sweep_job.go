package jobs

import (
	"context"
	"log/slog"
	"time"

	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// SweepHandler is a reconciliation pass driven by the scheduler.
type SweepHandler interface {
	Handle(ctx context.Context, cmd commands.SweepCommand) (commands.SweepResult, error)
}

// SweepJob runs one sweep on a cron schedule. A run that is still going
// when the next tick fires makes that tick a no-op.
type SweepJob struct {
	name     string
	schedule string
	handler  SweepHandler
	timeout  time.Duration
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewSweepJob creates a job named after its sweep. schedule is a six field
// cron expression (seconds first).
func NewSweepJob(name, schedule string, handler SweepHandler, timeout time.Duration, logger *slog.Logger) *SweepJob {
	logger = logger.With("component", name+"_job")
	return &SweepJob{
		name:     name,
		schedule: schedule,
		handler:  handler,
		timeout:  timeout,
		now:      time.Now,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithChain(
				cron.Recover(cronLogger{logger}),
				cron.SkipIfStillRunning(cronLogger{logger}),
			),
		),
		logger: logger,
	}
}

func (j *SweepJob) Name() string { return j.name }

// Start schedules the job. It fails on an invalid cron expression.
func (j *SweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("sweep job started", "schedule", j.schedule)
	return nil
}

// Stop unschedules the job and waits for a running pass to finish.
func (j *SweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("sweep job stopped")
}

// RunOnce executes a single pass as of the current time.
func (j *SweepJob) RunOnce(ctx context.Context) commands.SweepResult {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := j.run(ctx)
	elapsed := time.Since(start)
	metrics.ObserveSweep(j.name, result.Processed, result.Skipped, result.Failed, err, elapsed)

	if err != nil {
		j.logger.ErrorContext(ctx, "sweep failed", "error", err, "duration", elapsed)
		return result
	}
	if result.Candidates > 0 {
		j.logger.InfoContext(ctx, "sweep finished",
			"candidates", result.Candidates,
			"processed", result.Processed,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"duration", elapsed,
		)
	}
	return result
}

func (j *SweepJob) run(ctx context.Context) (commands.SweepResult, error) {
	cmd, err := commands.NewSweepCommand(j.now())
	if err != nil {
		return commands.SweepResult{}, err
	}
	return j.handler.Handle(ctx, cmd)
}
