package commands

import (
	"context"
	"log/slog"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/ports"
)

// SendBalanceRemindersCommandHandler reminds requesters of balances falling
// due within the window. Each order gets at most one reminder per calendar
// day; the notification log insert decides which run sends it.
type SendBalanceRemindersCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	window     time.Duration
	logger     *slog.Logger
}

func NewSendBalanceRemindersCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	window time.Duration,
	logger *slog.Logger,
) SendBalanceRemindersCommandHandler {
	return SendBalanceRemindersCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		window:     window,
		logger:     logger.With("component", "send_balance_reminders"),
	}
}

func (h SendBalanceRemindersCommandHandler) Handle(ctx context.Context, cmd SweepCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	dueBefore := cmd.Now().Add(h.window)
	ids, err := h.uowFactory.Create().OrderRepository().FindIDs(ctx, ports.OrderFilter{
		Status:           order.FinalAmountConfirmed,
		BalanceDueBefore: &dueBefore,
	})
	if err != nil {
		return SweepResult{}, err
	}

	day := calendarDay(cmd.Now())
	return runSweep(ctx, h.logger, ids, func(ctx context.Context, id kernel.UUID) (bool, error) {
		reminder, sent, err := h.record(ctx, id, dueBefore, day)
		if err != nil || !sent {
			return false, err
		}
		if err = h.notifier.BalanceReminder(ctx, reminder); err != nil {
			h.logger.WarnContext(ctx, "balance reminder not delivered", "order_id", id.String(), "error", err)
		}
		return true, nil
	}), nil
}

// record claims today's reminder for the order and reports whether this
// call got it.
func (h SendBalanceRemindersCommandHandler) record(
	ctx context.Context,
	id kernel.UUID,
	dueBefore, day time.Time,
) (ports.BalanceReminder, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.BalanceReminder{}, false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, id)
	if err != nil {
		return ports.BalanceReminder{}, false, err
	}
	if o.Status() != order.FinalAmountConfirmed || o.BalanceDueAt() == nil || !o.BalanceDueAt().Before(dueBefore) {
		return ports.BalanceReminder{}, false, nil
	}

	fresh, err := uow.NotificationLogRepository().Record(ctx, o.ID(), ports.NotificationBalanceReminder, day)
	if err != nil || !fresh {
		return ports.BalanceReminder{}, false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return ports.BalanceReminder{}, false, err
	}

	return ports.BalanceReminder{
		OrderID:     o.ID(),
		RequesterID: o.RequesterID(),
		Balance:     o.BalanceAmount(),
		DueAt:       *o.BalanceDueAt(),
	}, true, nil
}
