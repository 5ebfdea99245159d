package kernel

import (
	"errors"
	"strings"

	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var (
	ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")
	ErrActorIDIsRequired     = errs.NewValueIsRequiredError("actor id")
)

// Actor is the identity of the operator performing a custody operation.
// It is supplied by an upstream authentication layer; the custody core does not
// check permissions with it except where an operation is explicitly role-gated.
type Actor struct {
	id             string
	role           string
	linkedEntityID string
	guard          guard.ConstructorGuard
}

// NewActor builds an Actor. The id is mandatory; role and linked entity may be
// empty for system actors.
func NewActor(id, role, linkedEntityID string) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, ErrActorIDIsRequired
	}
	return Actor{
		id:             id,
		role:           strings.TrimSpace(role),
		linkedEntityID: strings.TrimSpace(linkedEntityID),
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the actor was created through NewActor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// ID returns the operator identifier.
func (a Actor) ID() string {
	return a.id
}

// Role returns the operator role as supplied by the auth layer.
func (a Actor) Role() string {
	return a.role
}

// LinkedEntityID returns the hub or facility the operator works at.
func (a Actor) LinkedEntityID() string {
	return a.linkedEntityID
}

// HasRole reports whether the actor's role matches one of roles, case-insensitively.
func (a Actor) HasRole(roles ...string) bool {
	for _, r := range roles {
		if a.role != "" && strings.EqualFold(a.role, strings.TrimSpace(r)) {
			return true
		}
	}
	return false
}
