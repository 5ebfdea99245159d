package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var (
	ErrOverrideInboundSealCommandIsNotConstructed = errors.New(
		"OverrideInboundSealCommand must be created via NewOverrideInboundSealCommand constructor",
	)
	ErrOverrideReasonIsRequired = errs.NewValueIsRequiredError("override reason")
)

// OverrideInboundSealCommand receives a bag whose seal cannot be matched, on
// the authority of a supervisor who states why.
type OverrideInboundSealCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	bagCode       string
	presentedSeal string
	reason        string

	guard guard.ConstructorGuard
}

// NewOverrideInboundSealCommand creates an override request.
// Returns ErrOverrideReasonIsRequired when reason is blank, joined with any
// actor or bag code error.
func NewOverrideInboundSealCommand(
	actor kernel.Actor,
	bagCode string,
	presentedSeal string,
	reason string,
) (OverrideInboundSealCommand, error) {
	code, codeErr := kernel.NormalizeCode(bagCode)

	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = ErrOverrideReasonIsRequired
	}

	if err := errors.Join(actor.Validate(), codeErr, reasonErr); err != nil {
		return OverrideInboundSealCommand{}, err
	}

	return OverrideInboundSealCommand{
		actor:         actor,
		bagCode:       code,
		presentedSeal: strings.TrimSpace(presentedSeal),
		reason:        reason,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c OverrideInboundSealCommand) Validate() error {
	return c.guard.Validate(ErrOverrideInboundSealCommandIsNotConstructed)
}

// Actor returns the operator issuing the command.
func (c OverrideInboundSealCommand) Actor() kernel.Actor { return c.actor }

// BagCode returns the normalized bag code.
func (c OverrideInboundSealCommand) BagCode() string { return c.bagCode }

// PresentedSeal returns the seal read off the physical bag.
func (c OverrideInboundSealCommand) PresentedSeal() string { return c.presentedSeal }

// Reason returns the supervisor's stated reason.
func (c OverrideInboundSealCommand) Reason() string { return c.reason }
