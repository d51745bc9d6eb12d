// Package notify delivers requester and helper notifications. The engine
// publishes them as JSON messages on a RabbitMQ fanout exchange; a log
// notifier is available for local runs.
package notify

import (
	"time"

	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/ports"
)

// Message kinds carried in the "kind" field and the AMQP Type property.
const (
	KindStatusChanged   = "order.status_changed"
	KindBalanceReminder = "order.balance_reminder"
)

type statusChangedMessage struct {
	Kind         string    `json:"kind"`
	EventID      string    `json:"event_id"`
	OrderID      string    `json:"order_id"`
	RequesterID  string    `json:"requester_id"`
	HelperID     string    `json:"helper_id,omitempty"`
	Previous     string    `json:"previous,omitempty"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	OverrideUsed bool      `json:"override_used"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func newStatusChangedMessage(e order.StatusEvent) statusChangedMessage {
	m := statusChangedMessage{
		Kind:         KindStatusChanged,
		EventID:      e.ID.String(),
		OrderID:      e.OrderID.String(),
		RequesterID:  e.RequesterID.String(),
		Status:       e.New.String(),
		Reason:       e.Reason,
		OverrideUsed: e.OverrideUsed,
		OccurredAt:   e.OccurredAt,
	}
	if e.HelperID != nil {
		m.HelperID = e.HelperID.String()
	}
	if e.Previous != order.Unknown {
		m.Previous = e.Previous.String()
	}
	return m
}

type balanceReminderMessage struct {
	Kind        string    `json:"kind"`
	OrderID     string    `json:"order_id"`
	RequesterID string    `json:"requester_id"`
	Balance     int64     `json:"balance"`
	DueAt       time.Time `json:"due_at"`
}

func newBalanceReminderMessage(r ports.BalanceReminder) balanceReminderMessage {
	return balanceReminderMessage{
		Kind:        KindBalanceReminder,
		OrderID:     r.OrderID.String(),
		RequesterID: r.RequesterID.String(),
		Balance:     r.Balance,
		DueAt:       r.DueAt,
	}
}
