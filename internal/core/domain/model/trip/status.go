package trip

import (
	"fmt"

	"custody/internal/pkg/errs"
)

// Status represents the lifecycle of a trip.
//
// Inbound path:
//
//	Created ──dispatch──> InTransit ──arrive──> Arrived ──unload──> Unloading ──complete──> InboundCompleted
//
// Legacy path:
//
//	InTransit | Arrived ──receive──> Received ──close──> Closed
//
// Hard-mode outbound trips are created directly in InTransit.
type Status int

const (
	Unknown Status = iota
	Created
	InTransit
	Arrived
	Unloading
	InboundCompleted
	Received
	Closed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "UNKNOWN",
		Created:          "CREATED",
		InTransit:        "IN_TRANSIT",
		Arrived:          "ARRIVED",
		Unloading:        "UNLOADING",
		InboundCompleted: "INBOUND_COMPLETED",
		Received:         "RECEIVED",
		Closed:           "CLOSED",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("trip status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("trip status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the trip has finished either path.
func (s Status) IsTerminal() bool {
	return s == InboundCompleted || s == Closed
}

type operation int

const (
	opLoad operation = iota + 1
	opDispatch
	opArrive
	opUnload
	opCompleteInbound
	opReceive
	opClose
)

func (o operation) String() string {
	switch o {
	case opLoad:
		return "load bag onto"
	case opDispatch:
		return "dispatch"
	case opArrive:
		return "mark arrived"
	case opUnload:
		return "start unloading"
	case opCompleteInbound:
		return "complete inbound for"
	case opReceive:
		return "receive"
	case opClose:
		return "close"
	default:
		return "operate on"
	}
}

var transitions = map[operation]struct {
	from []Status
	to   Status
}{
	opLoad:            {from: []Status{Created}, to: Created},
	opDispatch:        {from: []Status{Created}, to: InTransit},
	opArrive:          {from: []Status{InTransit}, to: Arrived},
	opUnload:          {from: []Status{Arrived}, to: Unloading},
	opCompleteInbound: {from: []Status{Unloading}, to: InboundCompleted},
	opReceive:         {from: []Status{InTransit, Arrived}, to: Received},
	opClose:           {from: []Status{Received}, to: Closed},
}

func (s Status) apply(op operation) (Status, error) {
	t, ok := transitions[op]
	if ok {
		for _, from := range t.from {
			if from == s {
				return t.to, nil
			}
		}
	}
	return s, fmt.Errorf("%w: cannot %s trip in status %s", ErrInvalidState, op, s)
}
