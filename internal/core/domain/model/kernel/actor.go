package kernel

import (
	"strings"

	"helperhub/internal/pkg/errs"
)

// Role is the coarse role of an actor as asserted by the authorization layer.
type Role string

const (
	RoleRequester Role = "requester"
	RoleHelper    Role = "helper"
	RoleAdmin     Role = "admin"
	RoleSystem    Role = "system"
)

// Permission is a single privileged capability. The core never derives
// permissions from roles itself; it only reads what the caller was granted.
type Permission string

const (
	PermissionOverrideTransition Permission = "order:override_transition"
	PermissionManageSettlement   Permission = "settlement:manage"
	PermissionManagePayout       Permission = "payout:manage"
	PermissionManagePolicy       Permission = "policy:manage"
	PermissionReviewClosing      Permission = "closing:review"
)

// Actor is the identity recorded on every status event and audit entry.
type Actor struct {
	id          string
	role        Role
	permissions map[Permission]struct{}
}

// NewActor builds an actor from an authorization decision.
func NewActor(id string, role Role, permissions ...Permission) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor id")
	}
	if role == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor role")
	}
	set := make(map[Permission]struct{}, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return Actor{id: id, role: role, permissions: set}, nil
}

// SystemActor is the identity used by reconciliation sweeps and scheduled jobs.
// It holds no privileged permissions: sweeps only follow declared edges.
func SystemActor(job string) Actor {
	return Actor{id: job, role: RoleSystem, permissions: map[Permission]struct{}{}}
}

func (a Actor) ID() string { return a.id }

func (a Actor) Role() Role { return a.role }

// Can reports whether the actor was granted p.
func (a Actor) Can(p Permission) bool {
	_, ok := a.permissions[p]
	return ok
}

// CanOverride reports whether the actor may force a transition outside the declared graph.
func (a Actor) CanOverride() bool {
	return a.Can(PermissionOverrideTransition)
}

// Require returns a ForbiddenError when the actor lacks p.
func (a Actor) Require(p Permission, action string) error {
	if !a.Can(p) {
		return errs.NewForbiddenError(action, a.String())
	}
	return nil
}

// Validate rejects the zero value.
func (a Actor) Validate() error {
	if a.id == "" || a.role == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	return nil
}

func (a Actor) String() string {
	return string(a.role) + ":" + a.id
}
