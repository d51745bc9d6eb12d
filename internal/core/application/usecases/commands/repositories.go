// Package commands contains the business operations that change state.
// Every command is built by a constructor that validates its input and is
// executed by a handler that owns one transaction per entity it changes.
package commands

import (
	"context"

	"helperhub/internal/core/ports"
)

// Unit of work views. Each handler depends on the narrowest view it needs;
// ports.UnitOfWork satisfies all of them.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	CandidateRepoFactory interface {
		CandidateRepository() ports.CandidateRepository
	}

	ClosingReportRepoFactory interface {
		ClosingReportRepository() ports.ClosingReportRepository
	}

	SettlementRepoFactory interface {
		SettlementRepository() ports.SettlementRepository
	}

	PayoutRepoFactory interface {
		PayoutRepository() ports.PayoutRepository
	}

	SettingRepoFactory interface {
		SettingChangeRepository() ports.SettingChangeRepository
		SettingRepository() ports.SettingRepository
	}

	IncidentRepoFactory interface {
		IncidentRepository() ports.IncidentRepository
	}

	// OrderUoW serves order lifecycle commands.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		CandidateRepoFactory
		SettlementRepoFactory
		SettingRepoFactory
		RefundRepository() ports.RefundRepository
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CandidateUoW serves the candidate registry.
	CandidateUoW interface {
		TxManager
		OrderRepoFactory
		CandidateRepoFactory
	}

	CandidateUoWFactory interface {
		Create() CandidateUoW
	}

	// ClosingUoW serves closing report submission and review.
	ClosingUoW interface {
		TxManager
		OrderRepoFactory
		ClosingReportRepoFactory
		SettlementRepoFactory
		SettingRepoFactory
	}

	ClosingUoWFactory interface {
		Create() ClosingUoW
	}

	// SettlementUoW serves the settlement ledger.
	SettlementUoW interface {
		TxManager
		SettlementRepoFactory
	}

	SettlementUoWFactory interface {
		Create() SettlementUoW
	}

	// PayoutUoW serves the payout orchestrator.
	PayoutUoW interface {
		TxManager
		OrderRepoFactory
		SettlementRepoFactory
		PayoutRepoFactory
	}

	PayoutUoWFactory interface {
		Create() PayoutUoW
	}

	// PolicyUoW serves the policy scheduler.
	PolicyUoW interface {
		TxManager
		SettingRepoFactory
	}

	PolicyUoWFactory interface {
		Create() PolicyUoW
	}

	// IncidentUoW serves incident reporting.
	IncidentUoW interface {
		TxManager
		OrderRepoFactory
		IncidentRepoFactory
	}

	IncidentUoWFactory interface {
		Create() IncidentUoW
	}

	// UoW gives reconciliation sweeps access to every repository.
	UoW interface {
		ports.UnitOfWork
	}

	UoWFactory interface {
		Create() UoW
	}
)
