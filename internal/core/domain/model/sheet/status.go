package sheet

import (
	"fmt"

	"custody/internal/pkg/errs"
)

// Status represents the lifecycle of a connection sheet.
//
//	Created ──add bag──> InProgress ──close──> Closed ──dispatch──> Dispatched
//	Created | InProgress ──close──> Closed (non-empty only)
type Status int

const (
	Unknown Status = iota
	Created
	InProgress
	Closed
	Dispatched
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Created:    "CREATED",
		InProgress: "IN_PROGRESS",
		Closed:     "CLOSED",
		Dispatched: "DISPATCHED",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("sheet status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("sheet status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsActive reports whether the sheet still owns its (origin, destination)
// route. At most one active sheet may exist per route.
func (s Status) IsActive() bool {
	return s == Created || s == InProgress
}

type operation int

const (
	opAddBag operation = iota + 1
	opClose
	opDispatch
)

func (o operation) String() string {
	switch o {
	case opAddBag:
		return "add bag to"
	case opClose:
		return "close"
	case opDispatch:
		return "dispatch"
	default:
		return "operate on"
	}
}

var transitions = map[operation]struct {
	from []Status
	to   Status
}{
	opAddBag:   {from: []Status{Created, InProgress}, to: InProgress},
	opClose:    {from: []Status{Created, InProgress}, to: Closed},
	opDispatch: {from: []Status{Closed}, to: Dispatched},
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
	return s, fmt.Errorf("%w: cannot %s sheet in status %s", ErrInvalidState, op, s)
}
