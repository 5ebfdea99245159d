package bag

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

// ExceptionType classifies an inbound finding.
type ExceptionType int

const (
	UnknownException ExceptionType = iota
	Shortage
	Damage
	Excess
)

func getExceptionTypeStrings() map[ExceptionType]string {
	return map[ExceptionType]string{
		Shortage: "SHORTAGE",
		Damage:   "DAMAGE",
		Excess:   "EXCESS",
	}
}

func ParseExceptionType(s string) (ExceptionType, error) {
	for t, name := range getExceptionTypeStrings() {
		if name == s {
			return t, nil
		}
	}
	return UnknownException, errs.NewValueIsInvalidErrorWithCause("exception type",
		fmt.Errorf("%q is not a valid exception type", s))
}

func (t ExceptionType) Validate() error {
	if _, ok := getExceptionTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("exception type",
			fmt.Errorf("%d is not a valid exception type", t))
	}
	return nil
}

func (t ExceptionType) String() string {
	if s, ok := getExceptionTypeStrings()[t]; ok {
		return s
	}
	return "UNKNOWN"
}

var ErrExceptionIsNotConstructed = errors.New("Exception must be created via NewException constructor")

// Exception is an append-only record of a shortage, damage or excess finding.
// It has no mutators.
type Exception struct {
	id          kernel.UUID
	bagID       kernel.UUID
	tripID      *kernel.UUID
	kind        ExceptionType
	shipmentID  string
	description string
	reportedBy  string
	reportedAt  time.Time

	guard guard.ConstructorGuard
}

// NewException records a finding against bagID. tripID is optional.
// shipmentID and description are trimmed and may be empty; reportedBy is
// required. Returns every validation error joined.
func NewException(
	id kernel.UUID,
	bagID kernel.UUID,
	tripID *kernel.UUID,
	kind ExceptionType,
	shipmentID string,
	description string,
	reportedBy string,
	reportedAt time.Time,
) (*Exception, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := bagID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if tripID != nil {
		if err := tripID.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := kind.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(reportedBy) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("reported by"))
	}
	if len(errList) > 0 {
		return nil, errors.Join(errList...)
	}

	return &Exception{
		id:          id,
		bagID:       bagID,
		tripID:      cloneUUID(tripID),
		kind:        kind,
		shipmentID:  strings.TrimSpace(shipmentID),
		description: strings.TrimSpace(description),
		reportedBy:  strings.TrimSpace(reportedBy),
		reportedAt:  reportedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestoreException rebuilds a persisted exception record.
func RestoreException(
	id kernel.UUID,
	bagID kernel.UUID,
	tripID *kernel.UUID,
	kind ExceptionType,
	shipmentID string,
	description string,
	reportedBy string,
	reportedAt time.Time,
) (*Exception, error) {
	return NewException(id, bagID, tripID, kind, shipmentID, description, reportedBy, reportedAt)
}

func (e *Exception) Validate() error {
	if e == nil {
		return ErrExceptionIsNotConstructed
	}
	return e.guard.Validate(ErrExceptionIsNotConstructed)
}

func (e *Exception) ID() kernel.UUID       { return e.id }
func (e *Exception) BagID() kernel.UUID    { return e.bagID }
func (e *Exception) TripID() *kernel.UUID  { return cloneUUID(e.tripID) }
func (e *Exception) Type() ExceptionType   { return e.kind }
func (e *Exception) ShipmentID() string    { return e.shipmentID }
func (e *Exception) Description() string   { return e.description }
func (e *Exception) ReportedBy() string    { return e.reportedBy }
func (e *Exception) ReportedAt() time.Time { return e.reportedAt }
