package policy

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"
	"helperhub/internal/pkg/guard"
)

var (
	ErrChangeIsNotConstructed = errors.New("Change must be created via NewChange constructor")

	// ErrInvalidStatus is returned when cancel or rollback targets a change in the wrong status.
	ErrInvalidStatus = errors.New("invalid setting change status")

	// ErrSuperseded is returned when a rollback targets a change that a later
	// change of the same setting already replaced.
	ErrSuperseded = errors.New("setting change is superseded by a later change")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusActive     Status = "active"
	StatusCancelled  Status = "cancelled"
	StatusRolledBack Status = "rolled_back"
)

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusActive, StatusCancelled, StatusRolledBack:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("change status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Change is one entry of the setting change ledger. An empty OldValue means
// the setting was unset before the change.
type Change struct {
	id            kernel.UUID
	settingType   SettingType
	entityID      string
	oldValue      string
	newValue      string
	effectiveFrom time.Time
	status        Status
	reason        string
	actor         string
	rollbackOf    *kernel.UUID
	appliedAt     *time.Time
	createdAt     time.Time
	guard         guard.ConstructorGuard
}

// State is the flat representation of a stored change.
type State struct {
	ID            kernel.UUID
	SettingType   SettingType
	EntityID      string
	OldValue      string
	NewValue      string
	EffectiveFrom time.Time
	Status        Status
	Reason        string
	Actor         string
	RollbackOf    *kernel.UUID
	AppliedAt     *time.Time
	CreatedAt     time.Time
}

// NewChange records a pending change. oldValue is the value in force at
// the time of the request. A missing effectiveFrom means now.
func NewChange(
	id kernel.UUID,
	settingType SettingType,
	entityID, oldValue, newValue string,
	effectiveFrom *time.Time,
	reason string,
	actor kernel.Actor,
	now time.Time,
) (*Change, error) {
	if err := actor.Require(kernel.PermissionManagePolicy, "change setting"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(newValue) == "" {
		return nil, errs.NewValueIsRequiredError("new value")
	}
	return newChange(id, settingType, entityID, oldValue, newValue, effectiveFrom, reason, actor, now)
}

// NewRollback records a change restoring the value active before original.
func NewRollback(id kernel.UUID, original *Change, reason string, actor kernel.Actor, now time.Time) (*Change, error) {
	if err := actor.Require(kernel.PermissionManagePolicy, "roll back setting"); err != nil {
		return nil, err
	}
	if original.status != StatusActive {
		return nil, fmt.Errorf("%w: cannot roll back %s change %s", ErrInvalidStatus, original.status, original.id)
	}
	c, err := newChange(id, original.settingType, original.entityID, original.newValue, original.oldValue, nil, reason, actor, now)
	if err != nil {
		return nil, err
	}
	originalID := original.id
	c.rollbackOf = &originalID
	return c, nil
}

func newChange(
	id kernel.UUID,
	settingType SettingType,
	entityID, oldValue, newValue string,
	effectiveFrom *time.Time,
	reason string,
	actor kernel.Actor,
	now time.Time,
) (*Change, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		entityID = GlobalEntity
	}
	if err := errors.Join(id.Validate(), settingType.Validate()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}
	from := now
	if effectiveFrom != nil {
		from = *effectiveFrom
	}
	return &Change{
		id:            id,
		settingType:   settingType,
		entityID:      entityID,
		oldValue:      oldValue,
		newValue:      strings.TrimSpace(newValue),
		effectiveFrom: from,
		status:        StatusPending,
		reason:        reason,
		actor:         actor.String(),
		createdAt:     now,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// RestoreChange rebuilds a stored change.
func RestoreChange(s State) (*Change, error) {
	if err := errors.Join(s.ID.Validate(), s.SettingType.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	return &Change{
		id:            s.ID,
		settingType:   s.SettingType,
		entityID:      s.EntityID,
		oldValue:      s.OldValue,
		newValue:      s.NewValue,
		effectiveFrom: s.EffectiveFrom,
		status:        s.Status,
		reason:        s.Reason,
		actor:         s.Actor,
		rollbackOf:    s.RollbackOf,
		appliedAt:     s.AppliedAt,
		createdAt:     s.CreatedAt,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c *Change) Validate() error {
	if c == nil {
		return ErrChangeIsNotConstructed
	}
	return c.guard.Validate(ErrChangeIsNotConstructed)
}

func (c *Change) State() State {
	return State{
		ID:            c.id,
		SettingType:   c.settingType,
		EntityID:      c.entityID,
		OldValue:      c.oldValue,
		NewValue:      c.newValue,
		EffectiveFrom: c.effectiveFrom,
		Status:        c.status,
		Reason:        c.reason,
		Actor:         c.actor,
		RollbackOf:    c.rollbackOf,
		AppliedAt:     c.appliedAt,
		CreatedAt:     c.createdAt,
	}
}

func (c *Change) ID() kernel.UUID          { return c.id }
func (c *Change) SettingType() SettingType { return c.settingType }
func (c *Change) EntityID() string         { return c.entityID }
func (c *Change) OldValue() string         { return c.oldValue }
func (c *Change) NewValue() string         { return c.newValue }
func (c *Change) EffectiveFrom() time.Time { return c.effectiveFrom }
func (c *Change) Status() Status           { return c.status }
func (c *Change) RollbackOf() *kernel.UUID { return c.rollbackOf }
func (c *Change) AppliedAt() *time.Time    { return c.appliedAt }

// IsDue reports whether a pending change should be in force at now.
func (c *Change) IsDue(now time.Time) bool {
	return c.status == StatusPending && !c.effectiveFrom.After(now)
}

// Activate marks the change applied. currentValue is the value being
// replaced at this moment and becomes the rollback target.
func (c *Change) Activate(currentValue string, at time.Time) error {
	if c.status != StatusPending {
		return fmt.Errorf("%w: cannot activate %s change %s", ErrInvalidStatus, c.status, c.id)
	}
	c.status = StatusActive
	c.oldValue = currentValue
	appliedAt := at
	c.appliedAt = &appliedAt
	return nil
}

// Cancel withdraws a pending change.
func (c *Change) Cancel(actor kernel.Actor) error {
	if err := actor.Require(kernel.PermissionManagePolicy, "cancel setting change"); err != nil {
		return err
	}
	if c.status != StatusPending {
		return fmt.Errorf("%w: cannot cancel %s change %s", ErrInvalidStatus, c.status, c.id)
	}
	c.status = StatusCancelled
	return nil
}

// MarkRolledBack closes an active change superseded by its rollback.
func (c *Change) MarkRolledBack() error {
	if c.status != StatusActive {
		return fmt.Errorf("%w: cannot roll back %s change %s", ErrInvalidStatus, c.status, c.id)
	}
	c.status = StatusRolledBack
	return nil
}
