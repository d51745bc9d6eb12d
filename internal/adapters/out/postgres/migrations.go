package postgres

import (
	"fmt"

	"helperhub/internal/adapters/out/postgres/candidaterepo"
	"helperhub/internal/adapters/out/postgres/closingrepo"
	"helperhub/internal/adapters/out/postgres/incidentrepo"
	"helperhub/internal/adapters/out/postgres/notificationrepo"
	"helperhub/internal/adapters/out/postgres/orderrepo"
	"helperhub/internal/adapters/out/postgres/payoutrepo"
	"helperhub/internal/adapters/out/postgres/policyrepo"
	"helperhub/internal/adapters/out/postgres/refundrepo"
	"helperhub/internal/adapters/out/postgres/settlementrepo"

	"gorm.io/gorm"
)

// partialIndexes are the uniqueness rules GORM tags cannot express.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_candidates_active
		ON candidates (order_id, helper_id)
		WHERE status IN ('applied', 'selected')`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_payouts_active
		ON payouts (settlement_id)
		WHERE status IN ('REQUESTED', 'SENT')`,
}

// Migrate creates or updates every table of the engine.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.StatusEventDTO{},
		&candidaterepo.CandidateDTO{},
		&closingrepo.ReportDTO{},
		&settlementrepo.SettlementDTO{},
		&settlementrepo.AuditEntryDTO{},
		&payoutrepo.PayoutDTO{},
		&payoutrepo.EventDTO{},
		&policyrepo.ChangeDTO{},
		&policyrepo.SettingDTO{},
		&incidentrepo.IncidentDTO{},
		&refundrepo.RefundDTO{},
		&notificationrepo.LogDTO{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Tables lists the engine's tables, children first.
func Tables() []string {
	return []string{
		"notification_logs",
		"refunds",
		"incidents",
		"settings",
		"setting_changes",
		"payout_events",
		"payouts",
		"settlement_audit_entries",
		"settlements",
		"closing_reports",
		"candidates",
		"order_status_events",
		"orders",
	}
}
