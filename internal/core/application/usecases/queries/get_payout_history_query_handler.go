package queries

import (
	"context"
	"database/sql"
	"errors"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/payout"
	"helperhub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetPayoutHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetPayoutHistoryQueryHandler(db *gorm.DB) GetPayoutHistoryQueryHandler {
	return GetPayoutHistoryQueryHandler{db: db}
}

func (h GetPayoutHistoryQueryHandler) Handle(ctx context.Context, query GetPayoutHistoryQuery) (PayoutView, error) {
	if err := query.Validate(); err != nil {
		return PayoutView{}, err
	}
	db := h.db.WithContext(ctx)

	var (
		view                  PayoutView
		id, settlementID      uuid.UUID
		accountNumber, holder string
	)
	err := db.Raw(`
		SELECT
			id,
			settlement_id,
			amount,
			bank_code,
			account_number,
			holder_name,
			status,
			retry_count,
			COALESCE(failure_code, ''),
			COALESCE(failure_message, '')
		FROM payouts
		WHERE id = ?
	`, query.PayoutID().Bytes()).Row().Scan(
		&id,
		&settlementID,
		&view.Amount,
		&view.BankCode,
		&accountNumber,
		&holder,
		&view.Status,
		&view.RetryCount,
		&view.FailureCode,
		&view.FailureMessage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return PayoutView{}, errs.NewObjectNotFoundError("payout", query.PayoutID().String())
	}
	if err != nil {
		return PayoutView{}, err
	}
	if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return PayoutView{}, err
	}
	if view.SettlementID, err = kernel.UUIDFromBytes(settlementID[:]); err != nil {
		return PayoutView{}, err
	}
	view.MaskedAccount = payout.BankAccount{
		BankCode:      view.BankCode,
		AccountNumber: accountNumber,
		HolderName:    holder,
	}.MaskedAccount()

	rows, err := db.Raw(`
		SELECT
			COALESCE(previous_status, ''),
			new_status,
			COALESCE(reason, ''),
			actor,
			occurred_at
		FROM payout_events
		WHERE payout_id = ?
		ORDER BY occurred_at, id
	`, query.PayoutID().Bytes()).Rows()
	if err != nil {
		return PayoutView{}, err
	}
	defer rows.Close()

	view.Events = make([]PayoutEventView, 0)
	for rows.Next() {
		var e PayoutEventView
		if err = rows.Scan(&e.Previous, &e.New, &e.Reason, &e.Actor, &e.OccurredAt); err != nil {
			return PayoutView{}, err
		}
		view.Events = append(view.Events, e)
	}
	if err = rows.Err(); err != nil {
		return PayoutView{}, err
	}

	return view, nil
}
