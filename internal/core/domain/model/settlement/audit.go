package settlement

import (
	"time"

	"helperhub/internal/core/domain/model/kernel"
)

// AuditKind classifies an audit entry.
type AuditKind string

const (
	AuditCreated          AuditKind = "CREATED"
	AuditReady            AuditKind = "READY"
	AuditLocked           AuditKind = "LOCKED"
	AuditUnlocked         AuditKind = "UNLOCKED"
	AuditConfirmed        AuditKind = "CONFIRMED"
	AuditAmountEdited     AuditKind = "AMOUNT_EDITED"
	AuditDeductionApplied AuditKind = "DEDUCTION_APPLIED"
	AuditPaid             AuditKind = "PAID"
)

// AuditEntry is an append-only ledger line. Status entries carry the status
// pair, amount entries carry the field and the value pair.
type AuditEntry struct {
	ID             kernel.UUID
	SettlementID   kernel.UUID
	Kind           AuditKind
	Field          Field
	PreviousValue  *int64
	NewValue       *int64
	PreviousStatus Status
	NewStatus      Status
	Reason         string
	Actor          string
	CreatedAt      time.Time
}
