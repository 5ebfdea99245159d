// Package audit defines the append-only audit entry every custody mutation
// emits after it commits.
package audit

import (
	"errors"
	"maps"
	"strings"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
)

// EventType names the class of mutation an entry describes.
type EventType string

const (
	BagOp              EventType = "BAG_OP"
	BagInbound         EventType = "BAG_INBOUND"
	BagInboundOverride EventType = "BAG_INBOUND_OVERRIDE"
	BagException       EventType = "BAG_EXCEPTION"
	SheetOp            EventType = "SHEET_OP"
	TripDispatch       EventType = "TRIP_DISPATCH"
	TripOp             EventType = "TRIP_OP"
)

func (e EventType) Validate() error {
	switch e {
	case BagOp, BagInbound, BagInboundOverride, BagException, SheetOp, TripDispatch, TripOp:
		return nil
	default:
		return errs.NewValueIsInvalidError("audit event type " + string(e))
	}
}

// Detail is the structured payload of an entry. Values must be JSON encodable.
type Detail map[string]any

// Entry is one immutable audit record.
type Entry struct {
	id         kernel.UUID
	eventType  EventType
	actorID    string
	actorRole  string
	entityCode string
	summary    string
	detail     Detail
	recordedAt time.Time
}

// NewEntry stamps an audit record for actor at the given time.
func NewEntry(
	eventType EventType,
	actor kernel.Actor,
	entityCode string,
	summary string,
	detail Detail,
	recordedAt time.Time,
) (Entry, error) {
	if err := errors.Join(eventType.Validate(), actor.Validate()); err != nil {
		return Entry{}, err
	}
	if strings.TrimSpace(entityCode) == "" {
		return Entry{}, errs.NewValueIsRequiredError("entity code")
	}

	return Entry{
		id:         kernel.NewUUID(),
		eventType:  eventType,
		actorID:    actor.ID(),
		actorRole:  actor.Role(),
		entityCode: entityCode,
		summary:    summary,
		detail:     maps.Clone(detail),
		recordedAt: recordedAt,
	}, nil
}

// RestoreEntry rebuilds a persisted entry without re-validating the actor.
func RestoreEntry(
	id kernel.UUID,
	eventType EventType,
	actorID, actorRole, entityCode, summary string,
	detail Detail,
	recordedAt time.Time,
) Entry {
	return Entry{
		id:         id,
		eventType:  eventType,
		actorID:    actorID,
		actorRole:  actorRole,
		entityCode: entityCode,
		summary:    summary,
		detail:     maps.Clone(detail),
		recordedAt: recordedAt,
	}
}

func (e Entry) ID() kernel.UUID       { return e.id }
func (e Entry) EventType() EventType  { return e.eventType }
func (e Entry) ActorID() string       { return e.actorID }
func (e Entry) ActorRole() string     { return e.actorRole }
func (e Entry) EntityCode() string    { return e.entityCode }
func (e Entry) Summary() string       { return e.summary }
func (e Entry) Detail() Detail        { return maps.Clone(e.detail) }
func (e Entry) RecordedAt() time.Time { return e.recordedAt }
