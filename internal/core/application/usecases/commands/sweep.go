package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var ErrSweepCommandIsNotConstructed = errors.New(
	"SweepCommand must be created via NewSweepCommand constructor",
)

// SweepCommand runs one reconciliation pass as of now.
type SweepCommand struct {
	now   time.Time
	guard guard.ConstructorGuard
}

func NewSweepCommand(now time.Time) (SweepCommand, error) {
	if now.IsZero() {
		return SweepCommand{}, errs.NewValueIsRequiredError("now")
	}
	return SweepCommand{now: now.UTC(), guard: guard.NewConstructorGuard()}, nil
}

func (c SweepCommand) Validate() error {
	return c.guard.Validate(ErrSweepCommandIsNotConstructed)
}

func (c SweepCommand) Now() time.Time { return c.now }

// SweepResult counts what a pass did. Skipped entities no longer matched
// when their transaction re-checked them or lost a race to another writer.
type SweepResult struct {
	Candidates int
	Processed  int
	Skipped    int
	Failed     int
}

// runSweep processes every id on its own. process reports false when the
// entity no longer qualifies. A failure is logged and the pass continues.
func runSweep(
	ctx context.Context,
	logger *slog.Logger,
	ids []kernel.UUID,
	process func(ctx context.Context, id kernel.UUID) (bool, error),
) SweepResult {
	result := SweepResult{Candidates: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			logger.WarnContext(ctx, "sweep interrupted", "error", err, "remaining", len(ids)-result.Processed-result.Skipped-result.Failed)
			break
		}

		done, err := process(ctx, id)
		switch {
		case errors.Is(err, errs.ErrConcurrencyConflict):
			logger.InfoContext(ctx, "entity changed concurrently, skipped", "id", id.String())
			result.Skipped++
		case err != nil:
			logger.ErrorContext(ctx, "failed to process entity", "id", id.String(), "error", err)
			result.Failed++
		case done:
			result.Processed++
		default:
			result.Skipped++
		}
	}
	return result
}

// calendarDay truncates t to midnight UTC.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// scheduleCutoff is the earliest scheduled date that has not passed yet at now.
func scheduleCutoff(now time.Time) time.Time {
	return calendarDay(now)
}
