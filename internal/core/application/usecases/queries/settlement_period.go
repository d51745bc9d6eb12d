package queries

import (
	"fmt"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"
)

// SettlementPeriod selects settlements created in [From, To), optionally
// for one helper only.
type SettlementPeriod struct {
	From     time.Time
	To       time.Time
	HelperID *kernel.UUID
}

func (p SettlementPeriod) validate() error {
	if p.From.IsZero() {
		return errs.NewValueIsRequiredError("from")
	}
	if p.To.IsZero() {
		return errs.NewValueIsRequiredError("to")
	}
	if !p.To.After(p.From) {
		return errs.NewValueIsInvalidErrorWithCause("period", fmt.Errorf("to %s is not after from %s", p.To, p.From))
	}
	if p.HelperID != nil {
		return p.HelperID.Validate()
	}
	return nil
}

// where renders the shared filter for the settlements table aliased as s.
func (p SettlementPeriod) where() (string, []any) {
	clause := "s.created_at >= ? AND s.created_at < ?"
	args := []any{p.From, p.To}
	if p.HelperID != nil {
		clause += " AND s.helper_id = ?"
		args = append(args, p.HelperID.Bytes())
	}
	return clause, args
}
