// Package settlement is the per-helper money ledger of an order.
//
//	PENDING --balance paid--> READY <--Unlock-- LOCKED --Confirm--> CONFIRMED
//	PENDING/READY --Lock--> LOCKED
//	LOCKED/CONFIRMED --payout succeeded--> PAID
//
// Amounts are frozen while LOCKED, CONFIRMED or PAID. Every status change
// and every amount change appends exactly one audit entry.
package settlement
