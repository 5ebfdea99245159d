package sheet

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var (
	ErrSheetIsNotConstructed = errors.New("Sheet must be created via NewSheet constructor")

	ErrInvalidState         = errs.NewStateConflictError("sheet", "operation is not allowed in the current status")
	ErrEmptySheet           = errs.NewStateConflictError("sheet", "has no bags")
	ErrDuplicateActiveRoute = errs.NewIntegrityViolationError("an active sheet already exists for this route")
	ErrBagNotReady          = errs.NewStateConflictError("bag", "is not ready to be connected")
)

// Sheet is a routing manifest grouping bags at one hub bound for one
// destination. Its bag list is append-only until the sheet is closed.
type Sheet struct {
	id              kernel.UUID
	code            string
	hubID           string
	destinationID   string
	destinationType DestinationType
	status          Status
	bagIDs          []kernel.UUID
	createdBy       string
	createdAt       time.Time
	closedAt        *time.Time
	tripID          *kernel.UUID

	guard guard.ConstructorGuard
}

// State is the persistence view of a Sheet.
type State struct {
	ID              kernel.UUID
	Code            string
	HubID           string
	DestinationID   string
	DestinationType DestinationType
	Status          Status
	BagIDs          []kernel.UUID
	CreatedBy       string
	CreatedAt       time.Time
	ClosedAt        *time.Time
	TripID          *kernel.UUID
}

// NewSheet opens a sheet for the route hubID -> destinationID. Uniqueness of
// the active route is checked by the caller against the repository.
func NewSheet(
	id kernel.UUID,
	code string,
	hubID string,
	destinationID string,
	destinationType DestinationType,
	createdBy string,
	createdAt time.Time,
) (*Sheet, error) {
	s := &Sheet{
		status:    Created,
		bagIDs:    make([]kernel.UUID, 0),
		createdBy: createdBy,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setCode(code),
		s.setRoute(hubID, destinationID),
		s.setDestinationType(destinationType),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Restore rebuilds a Sheet from persisted state.
func Restore(st State) (*Sheet, error) {
	s := &Sheet{
		bagIDs:    slices.Clone(st.BagIDs),
		createdBy: st.CreatedBy,
		createdAt: st.CreatedAt,
		closedAt:  cloneTime(st.ClosedAt),
		tripID:    cloneUUID(st.TripID),
		guard:     guard.NewConstructorGuard(),
	}
	if s.bagIDs == nil {
		s.bagIDs = make([]kernel.UUID, 0)
	}

	var statusErr error
	if statusErr = st.Status.Validate(); statusErr == nil {
		s.status = st.Status
	}

	if err := errors.Join(
		s.setID(st.ID),
		s.setCode(st.Code),
		s.setRoute(st.HubID, st.DestinationID),
		s.setDestinationType(st.DestinationType),
		statusErr,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate ensures the sheet was created through NewSheet or Restore.
func (s *Sheet) Validate() error {
	if s == nil {
		return ErrSheetIsNotConstructed
	}
	return s.guard.Validate(ErrSheetIsNotConstructed)
}

// State returns a copy of the sheet's persistable state.
func (s *Sheet) State() State {
	return State{
		ID:              s.id,
		Code:            s.code,
		HubID:           s.hubID,
		DestinationID:   s.destinationID,
		DestinationType: s.destinationType,
		Status:          s.status,
		BagIDs:          slices.Clone(s.bagIDs),
		CreatedBy:       s.createdBy,
		CreatedAt:       s.createdAt,
		ClosedAt:        cloneTime(s.closedAt),
		TripID:          cloneUUID(s.tripID),
	}
}

func (s *Sheet) ID() kernel.UUID                  { return s.id }
func (s *Sheet) Code() string                     { return s.code }
func (s *Sheet) HubID() string                    { return s.hubID }
func (s *Sheet) DestinationID() string            { return s.destinationID }
func (s *Sheet) DestinationType() DestinationType { return s.destinationType }
func (s *Sheet) Status() Status                   { return s.status }
func (s *Sheet) BagIDs() []kernel.UUID            { return slices.Clone(s.bagIDs) }
func (s *Sheet) BagCount() int                    { return len(s.bagIDs) }
func (s *Sheet) CreatedBy() string                { return s.createdBy }
func (s *Sheet) CreatedAt() time.Time             { return s.createdAt }
func (s *Sheet) ClosedAt() *time.Time             { return cloneTime(s.closedAt) }
func (s *Sheet) TripID() *kernel.UUID             { return cloneUUID(s.tripID) }

// ValidateAddBag reports ErrInvalidState when the sheet no longer accepts bags.
func (s *Sheet) ValidateAddBag() error {
	_, err := s.status.apply(opAddBag)
	return err
}

// AddBag appends the bag id. The first bag moves the sheet to InProgress.
// Bag-side readiness is checked by services.BagRouter before calling this.
func (s *Sheet) AddBag(bagID kernel.UUID) error {
	if err := bagID.Validate(); err != nil {
		return err
	}

	next, err := s.status.apply(opAddBag)
	if err != nil {
		return err
	}

	if slices.ContainsFunc(s.bagIDs, bagID.IsEqual) {
		return nil
	}

	s.bagIDs = append(s.bagIDs, bagID)
	s.status = next
	return nil
}

// Close freezes the bag list. An empty sheet cannot be closed.
func (s *Sheet) Close(at time.Time) error {
	if len(s.bagIDs) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptySheet, s.code)
	}

	next, err := s.status.apply(opClose)
	if err != nil {
		return err
	}

	closedAt := at
	s.closedAt = &closedAt
	s.status = next
	return nil
}

// MarkDispatched is invoked only by outbound trip dispatch.
func (s *Sheet) MarkDispatched(tripID kernel.UUID) error {
	if err := tripID.Validate(); err != nil {
		return err
	}

	next, err := s.status.apply(opDispatch)
	if err != nil {
		return err
	}

	s.tripID = &tripID
	s.status = next
	return nil
}

func (s *Sheet) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Sheet) setCode(code string) error {
	normalized, err := kernel.NormalizeCode(code)
	if err != nil {
		return err
	}
	s.code = normalized
	return nil
}

func (s *Sheet) setRoute(hubID, destinationID string) error {
	hub := strings.TrimSpace(hubID)
	destination := strings.TrimSpace(destinationID)

	var errList []error
	if hub == "" {
		errList = append(errList, errs.NewValueIsRequiredError("hub id"))
	}
	if destination == "" {
		errList = append(errList, errs.NewValueIsRequiredError("destination id"))
	}
	if len(errList) > 0 {
		return errors.Join(errList...)
	}

	s.hubID = hub
	s.destinationID = destination
	return nil
}

func (s *Sheet) setDestinationType(t DestinationType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.destinationType = t
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneUUID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
