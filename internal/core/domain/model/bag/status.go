package bag

import (
	"fmt"

	"custody/internal/pkg/errs"
)

// Status represents the custody state of a bag.
//
// State transitions:
//
//	Created ──scan──> Opened ──seal──> Sealed
//	Created | Sealed | InboundReceived ──connect──> Connected
//	Sealed | InboundReceived | Received ──dispatch──> Dispatched ──depart──> InTransit
//	Connected ──sheet-dispatch──> Dispatched
//	Dispatched | InTransit ──verify inbound──> InboundReceived
//	Dispatched | InTransit ──receive──> Received
//	any non-terminal ──exception──> ShortageMarked | DamageMarked (terminal)
//
// Allowed predecessors for each operation live in a single transition table,
// so every mutation on Bag goes through Status.apply.
type Status int

const (
	// Unknown is the zero value and never a valid persisted status.
	Unknown Status = iota
	Created
	Opened
	Sealed
	Dispatched
	InTransit
	InboundReceived
	Received
	Connected
	ShortageMarked
	DamageMarked
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "UNKNOWN",
		Created:         "CREATED",
		Opened:          "OPENED",
		Sealed:          "SEALED",
		Dispatched:      "DISPATCHED",
		InTransit:       "IN_TRANSIT",
		InboundReceived: "INBOUND_RECEIVED",
		Received:        "RECEIVED",
		Connected:       "CONNECTED",
		ShortageMarked:  "SHORTAGE_MARKED",
		DamageMarked:    "DAMAGE_MARKED",
	}
}

// ParseStatus converts the wire name of a status back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("bag status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the status is one of the defined non-Unknown values.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("bag status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsOpen reports whether the bag still accepts shipments. A shipment may be
// inside at most one open bag at a time.
func (s Status) IsOpen() bool {
	return s == Created || s == Opened
}

// IsTerminal reports whether the bag was exception-marked. Terminal bags are
// resolved by manual investigation and never move again.
func (s Status) IsTerminal() bool {
	return s == ShortageMarked || s == DamageMarked
}

// IsResolvedForInbound reports whether the bag is accounted for at an inbound
// trip: verified against its seal, or explicitly exception-flagged.
func (s Status) IsResolvedForInbound() bool {
	return s == InboundReceived || s.IsTerminal()
}

type operation int

const (
	opScan operation = iota + 1
	opSeal
	opConnect
	opDispatch
	opDispatchConnected
	opDepart
	opVerifyInbound
	opReceive
	opMarkShortage
	opMarkDamage
)

func (o operation) String() string {
	switch o {
	case opScan:
		return "scan into"
	case opSeal:
		return "seal"
	case opConnect:
		return "connect"
	case opDispatch:
		return "dispatch"
	case opDispatchConnected:
		return "sheet-dispatch"
	case opDepart:
		return "depart"
	case opVerifyInbound:
		return "verify inbound"
	case opReceive:
		return "receive"
	case opMarkShortage:
		return "mark shortage on"
	case opMarkDamage:
		return "mark damage on"
	default:
		return "operate on"
	}
}

type transition struct {
	from []Status
	to   Status
}

var nonTerminal = []Status{
	Created, Opened, Sealed, Dispatched, InTransit, InboundReceived, Received, Connected,
}

var transitions = map[operation]transition{
	opScan:              {from: []Status{Created, Opened}, to: Opened},
	opSeal:              {from: []Status{Created, Opened}, to: Sealed},
	opConnect:           {from: []Status{InboundReceived, Created, Sealed}, to: Connected},
	opDispatch:          {from: []Status{Sealed, InboundReceived, Received}, to: Dispatched},
	opDispatchConnected: {from: []Status{Connected}, to: Dispatched},
	opDepart:            {from: []Status{Dispatched}, to: InTransit},
	opVerifyInbound:     {from: []Status{Dispatched, InTransit}, to: InboundReceived},
	opReceive:           {from: []Status{Dispatched, InTransit}, to: Received},
	opMarkShortage:      {from: nonTerminal, to: ShortageMarked},
	opMarkDamage:        {from: nonTerminal, to: DamageMarked},
}

// allows reports whether op may be applied to a bag in status s.
func (s Status) allows(op operation) bool {
	t, ok := transitions[op]
	if !ok {
		return false
	}
	for _, from := range t.from {
		if from == s {
			return true
		}
	}
	return false
}

// apply returns the status reached by op, or ErrInvalidState.
func (s Status) apply(op operation) (Status, error) {
	if !s.allows(op) {
		return s, fmt.Errorf("%w: cannot %s bag in status %s", ErrInvalidState, op, s)
	}
	return transitions[op].to, nil
}
