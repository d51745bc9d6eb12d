package commands

import (
	"context"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/domain/model/refund"
	"helperhub/internal/core/ports"
	"helperhub/internal/pkg/errs"
)

// CancelOrderCommand cancels an order before it is settled. Active
// candidates are auto-cancelled and a paid deposit is recorded as a refund.
type CancelOrderCommand struct {
	orderCommand
	reason string
}

func NewCancelOrderCommand(orderID kernel.UUID, reason string, actor kernel.Actor) (CancelOrderCommand, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("reason")
	}
	base, err := newOrderCommand(orderID, actor)
	if err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{orderCommand: base, reason: reason}, nil
}

func (c CancelOrderCommand) Reason() string { return c.reason }

type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return changeOrder(ctx, h.uowFactory, cmd.OrderID(), func(uow OrderUoW, o *order.Order) error {
		if err := requireParticipant(cmd.Actor(), o.RequesterID(), "cancel order"); err != nil {
			return err
		}
		return cancelOrder(ctx, uow, o, cmd.Reason(), cmd.Actor(), time.Now().UTC())
	})
}

// cancellationUoW is what cancelling an order touches.
type cancellationUoW interface {
	CandidateRepoFactory
	RefundRepository() ports.RefundRepository
}

// cancelOrder cancels o, auto-cancels its active candidates and records a
// refund when a deposit was paid. The caller writes o.
func cancelOrder(ctx context.Context, uow cancellationUoW, o *order.Order, reason string, actor kernel.Actor, at time.Time) error {
	if err := o.Cancel(reason, actor, at); err != nil {
		return err
	}

	candidateRepo := uow.CandidateRepository()
	candidates, err := candidateRepo.ListByOrder(ctx, o.ID())
	if err != nil {
		return err
	}
	for _, c := range candidates {
		if !c.IsActive() {
			continue
		}
		if err = c.AutoCancel(at); err != nil {
			return err
		}
		if err = candidateRepo.Update(ctx, c); err != nil {
			return err
		}
	}

	if o.DepositAmount() > 0 && o.MarkRefunded() {
		r, err := refund.NewRefund(o.ID(), o.RequesterID(), o.DepositAmount(), reason, at)
		if err != nil {
			return err
		}
		if err = uow.RefundRepository().Add(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
