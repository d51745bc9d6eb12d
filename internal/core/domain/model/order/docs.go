// Package order holds the Order aggregate and its status state machine.
//
// Status changes happen only through Order.Transition, which checks the
// statically declared transition table, honours the override permission of
// the acting user and appends exactly one StatusEvent per change. Every
// command that moves money first asks the order whether it is in the right
// state, so this package is the single authority for lifecycle checks.
//
//	AWAITING_DEPOSIT ─> OPEN ─> SCHEDULED ─> IN_PROGRESS ─> CLOSING_SUBMITTED
//	                     ^          │            ^                │
//	                     └──────────┘            └── (rejected) ──┤
//	                                                              v
//	CLOSED <─ SETTLEMENT_PAID <─ BALANCE_PAID <─ FINAL_AMOUNT_CONFIRMED
//
// Any non-terminal status may move to CANCELLED with a reason.
package order
