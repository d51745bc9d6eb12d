package http

import (
	"net/http"
	"time"

	"helperhub/internal/core/application/usecases/commands"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/policy"

	"github.com/labstack/echo/v4"
)

// SettingChange schedules a setting value. An absent effective_from applies
// the value immediately; an empty entity_id means the global setting.
type SettingChange struct {
	SettingType   string     `json:"setting_type"`
	EntityID      string     `json:"entity_id,omitempty"`
	Value         string     `json:"value"`
	EffectiveFrom *time.Time `json:"effective_from,omitempty"`
	Reason        string     `json:"reason"`
}

// ChangeSetting handles POST /api/v1/settings/changes.
func (s *Server) ChangeSetting(ctx echo.Context) error {
	var body SettingChange
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	changeID := kernel.NewUUID()
	cmd, err := commands.NewChangeSettingCommand(
		changeID,
		policy.SettingType(body.SettingType),
		body.EntityID,
		body.Value,
		body.EffectiveFrom,
		body.Reason,
		actorFrom(ctx),
	)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.ChangeSetting.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return created(ctx, changeID)
}

// CancelSettingChange handles POST /api/v1/settings/changes/:changeId/cancel.
func (s *Server) CancelSettingChange(ctx echo.Context) error {
	changeID, err := pathUUID(ctx, "changeId")
	if err != nil {
		return respondError(ctx, err)
	}
	cmd, err := commands.NewCancelSettingChangeCommand(changeID, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.CancelSettingChange.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RollbackSettingChange handles POST /api/v1/settings/changes/:changeId/rollback.
// The rollback is recorded as a change of its own.
func (s *Server) RollbackSettingChange(ctx echo.Context) error {
	changeID, err := pathUUID(ctx, "changeId")
	if err != nil {
		return respondError(ctx, err)
	}
	var body Reason
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	rollbackID := kernel.NewUUID()
	cmd, err := commands.NewRollbackSettingChangeCommand(rollbackID, changeID, body.Reason, actorFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.h.RollbackSettingChange.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return created(ctx, rollbackID)
}
