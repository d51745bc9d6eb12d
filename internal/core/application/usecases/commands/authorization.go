package commands

import (
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/pkg/errs"
)

// requireParticipant lets through the participant the operation belongs to,
// admins and system jobs.
func requireParticipant(actor kernel.Actor, participant kernel.UUID, action string) error {
	switch actor.Role() {
	case kernel.RoleAdmin, kernel.RoleSystem:
		return nil
	}
	if actor.ID() == participant.String() {
		return nil
	}
	return errs.NewForbiddenError(action, actor.String())
}
