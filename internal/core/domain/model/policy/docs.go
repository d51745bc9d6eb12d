// Package policy records scheduled changes to platform settings.
//
// Every change is a ledger entry holding the value it replaces, so any
// active change can be rolled back by a new change pointing at it.
//
//	pending --activate--> active --rollback--> rolled_back
//	pending --cancel----> cancelled
package policy
