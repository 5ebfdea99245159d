package trip

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
	ErrTripIsNotConstructed = errors.New("Trip must be created via NewTrip or NewOutboundTrip constructor")

	ErrInvalidState           = errs.NewStateConflictError("trip", "operation is not allowed in the current status")
	ErrEmptyTrip              = errs.NewStateConflictError("trip", "has no bags loaded")
	ErrIncompleteManifest     = errs.NewValueIsRequiredError("vehicle and driver details")
	ErrNoSheetsSelected       = errs.NewValueIsRequiredError("connection sheet ids")
	ErrIncompleteVerification = errs.NewIntegrityViolationError("every bag must be verified or exception-flagged before inbound completion")
)

// IncompleteVerificationError reports how many bags of a trip are still
// unresolved at inbound completion.
type IncompleteVerificationError struct {
	TripID     kernel.UUID
	Unresolved int
}

func (e *IncompleteVerificationError) Error() string {
	return fmt.Sprintf("%s: trip %s has %d unresolved bag(s)", ErrIncompleteVerification, e.TripID, e.Unresolved)
}

// Unwrap lets errors.Is match ErrIncompleteVerification.
func (e *IncompleteVerificationError) Unwrap() error {
	return ErrIncompleteVerification
}

// Trip is a vehicle movement between two entities. It carries bags directly
// and remembers the connection sheets those bags were consolidated from.
type Trip struct {
	id                  kernel.UUID
	code                string
	originEntityID      string
	destinationEntityID string
	source              Source
	manifest            Manifest
	status              Status
	bagIDs              []kernel.UUID
	sheetIDs            []kernel.UUID
	createdBy           string
	createdAt           time.Time
	dispatchedAt        *time.Time
	arrivedAt           *time.Time
	completedAt         *time.Time

	guard guard.ConstructorGuard
}

// State is the persistence view of a Trip.
type State struct {
	ID                  kernel.UUID
	Code                string
	OriginEntityID      string
	DestinationEntityID string
	Source              Source
	Manifest            Manifest
	Status              Status
	BagIDs              []kernel.UUID
	SheetIDs            []kernel.UUID
	CreatedBy           string
	CreatedAt           time.Time
	DispatchedAt        *time.Time
	ArrivedAt           *time.Time
	CompletedAt         *time.Time
}

// NewTrip creates an empty trip in Created status for manual loading.
func NewTrip(
	id kernel.UUID,
	code string,
	originEntityID string,
	destinationEntityID string,
	source Source,
	manifest Manifest,
	createdBy string,
	createdAt time.Time,
) (*Trip, error) {
	t := &Trip{
		status:    Created,
		manifest:  manifest,
		bagIDs:    make([]kernel.UUID, 0),
		sheetIDs:  make([]kernel.UUID, 0),
		createdBy: createdBy,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setCode(code),
		t.setRoute(originEntityID, destinationEntityID),
		t.setSource(source),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// NewOutboundTrip creates an already loaded trip directly in InTransit. The
// manifest must be complete and at least one sheet must be given; bag ids are
// de-duplicated preserving first occurrence.
func NewOutboundTrip(
	id kernel.UUID,
	code string,
	originEntityID string,
	destinationEntityID string,
	manifest Manifest,
	sheetIDs []kernel.UUID,
	bagIDs []kernel.UUID,
	createdBy string,
	createdAt time.Time,
) (*Trip, error) {
	if len(sheetIDs) == 0 {
		return nil, ErrNoSheetsSelected
	}
	if err := manifest.ValidateComplete(); err != nil {
		return nil, err
	}

	t, err := NewTrip(id, code, originEntityID, destinationEntityID, InternalTransfer, manifest, createdBy, createdAt)
	if err != nil {
		return nil, err
	}

	t.sheetIDs = dedupe(sheetIDs)
	t.bagIDs = dedupe(bagIDs)
	dispatchedAt := createdAt
	t.dispatchedAt = &dispatchedAt
	t.status = InTransit
	return t, nil
}

// Restore rebuilds a Trip from persisted state. It checks identity, route,
// source and status but not the bag or sheet lists.
func Restore(s State) (*Trip, error) {
	t := &Trip{
		manifest:     s.Manifest,
		bagIDs:       slices.Clone(s.BagIDs),
		sheetIDs:     slices.Clone(s.SheetIDs),
		createdBy:    s.CreatedBy,
		createdAt:    s.CreatedAt,
		dispatchedAt: cloneTime(s.DispatchedAt),
		arrivedAt:    cloneTime(s.ArrivedAt),
		completedAt:  cloneTime(s.CompletedAt),
		guard:        guard.NewConstructorGuard(),
	}
	if t.bagIDs == nil {
		t.bagIDs = make([]kernel.UUID, 0)
	}
	if t.sheetIDs == nil {
		t.sheetIDs = make([]kernel.UUID, 0)
	}

	var statusErr error
	if statusErr = s.Status.Validate(); statusErr == nil {
		t.status = s.Status
	}

	if err := errors.Join(
		t.setID(s.ID),
		t.setCode(s.Code),
		t.setRoute(s.OriginEntityID, s.DestinationEntityID),
		t.setSource(s.Source),
		statusErr,
	); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate ensures the trip was created through a constructor or Restore.
// Returns ErrTripIsNotConstructed otherwise.
func (t *Trip) Validate() error {
	if t == nil {
		return ErrTripIsNotConstructed
	}
	return t.guard.Validate(ErrTripIsNotConstructed)
}

// State returns a copy of the trip's persistable state.
func (t *Trip) State() State {
	return State{
		ID:                  t.id,
		Code:                t.code,
		OriginEntityID:      t.originEntityID,
		DestinationEntityID: t.destinationEntityID,
		Source:              t.source,
		Manifest:            t.manifest,
		Status:              t.status,
		BagIDs:              slices.Clone(t.bagIDs),
		SheetIDs:            slices.Clone(t.sheetIDs),
		CreatedBy:           t.createdBy,
		CreatedAt:           t.createdAt,
		DispatchedAt:        cloneTime(t.dispatchedAt),
		ArrivedAt:           cloneTime(t.arrivedAt),
		CompletedAt:         cloneTime(t.completedAt),
	}
}

func (t *Trip) ID() kernel.UUID             { return t.id }
func (t *Trip) Code() string                { return t.code }
func (t *Trip) OriginEntityID() string      { return t.originEntityID }
func (t *Trip) DestinationEntityID() string { return t.destinationEntityID }
func (t *Trip) Source() Source              { return t.source }
func (t *Trip) Manifest() Manifest          { return t.manifest }
func (t *Trip) Status() Status              { return t.status }
func (t *Trip) BagIDs() []kernel.UUID       { return slices.Clone(t.bagIDs) }
func (t *Trip) SheetIDs() []kernel.UUID     { return slices.Clone(t.sheetIDs) }
func (t *Trip) CreatedBy() string           { return t.createdBy }
func (t *Trip) CreatedAt() time.Time        { return t.createdAt }
func (t *Trip) DispatchedAt() *time.Time    { return cloneTime(t.dispatchedAt) }
func (t *Trip) ArrivedAt() *time.Time       { return cloneTime(t.arrivedAt) }
func (t *Trip) CompletedAt() *time.Time     { return cloneTime(t.completedAt) }

// ValidateLoad reports ErrInvalidState when bags can no longer be loaded.
func (t *Trip) ValidateLoad() error {
	_, err := t.status.apply(opLoad)
	return err
}

// LoadBag adds a bag while the trip is still Created. Loading the same bag
// twice is a no-op.
func (t *Trip) LoadBag(bagID kernel.UUID) error {
	if err := bagID.Validate(); err != nil {
		return err
	}
	if err := t.ValidateLoad(); err != nil {
		return err
	}
	if !slices.ContainsFunc(t.bagIDs, bagID.IsEqual) {
		t.bagIDs = append(t.bagIDs, bagID)
	}
	return nil
}

// Dispatch sends a manually loaded trip on its way.
func (t *Trip) Dispatch(at time.Time) error {
	next, err := t.status.apply(opDispatch)
	if err != nil {
		return err
	}
	if len(t.bagIDs) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyTrip, t.code)
	}

	dispatchedAt := at
	t.dispatchedAt = &dispatchedAt
	t.status = next
	return nil
}

// MarkArrived records arrival of an IN_TRANSIT trip at its destination.
// Returns ErrInvalidState from any other status.
func (t *Trip) MarkArrived(at time.Time) error {
	next, err := t.status.apply(opArrive)
	if err != nil {
		return err
	}

	arrivedAt := at
	t.arrivedAt = &arrivedAt
	t.status = next
	return nil
}

// StartUnloading moves an ARRIVED trip to UNLOADING, the window in which bags
// are verified one by one.
func (t *Trip) StartUnloading() error {
	next, err := t.status.apply(opUnload)
	if err != nil {
		return err
	}
	t.status = next
	return nil
}

// CompleteInbound closes the inbound path. unresolved is the number of the
// trip's bags that are neither verified nor exception-flagged.
func (t *Trip) CompleteInbound(unresolved int, at time.Time) error {
	next, err := t.status.apply(opCompleteInbound)
	if err != nil {
		return err
	}
	if unresolved > 0 {
		return &IncompleteVerificationError{TripID: t.id, Unresolved: unresolved}
	}

	completedAt := at
	t.completedAt = &completedAt
	t.status = next
	return nil
}

// Receive is the legacy arrival marker without per-bag verification.
func (t *Trip) Receive(at time.Time) error {
	next, err := t.status.apply(opReceive)
	if err != nil {
		return err
	}

	if t.arrivedAt == nil {
		arrivedAt := at
		t.arrivedAt = &arrivedAt
	}
	t.status = next
	return nil
}

// Close ends a RECEIVED trip and stamps completedAt.
func (t *Trip) Close(at time.Time) error {
	next, err := t.status.apply(opClose)
	if err != nil {
		return err
	}

	completedAt := at
	t.completedAt = &completedAt
	t.status = next
	return nil
}

func (t *Trip) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Trip) setCode(code string) error {
	normalized, err := kernel.NormalizeCode(code)
	if err != nil {
		return err
	}
	t.code = normalized
	return nil
}

func (t *Trip) setRoute(originEntityID, destinationEntityID string) error {
	origin := strings.TrimSpace(originEntityID)
	destination := strings.TrimSpace(destinationEntityID)

	var errList []error
	if origin == "" {
		errList = append(errList, errs.NewValueIsRequiredError("origin entity id"))
	}
	if destination == "" {
		errList = append(errList, errs.NewValueIsRequiredError("destination entity id"))
	}
	if len(errList) > 0 {
		return errors.Join(errList...)
	}

	t.originEntityID = origin
	t.destinationEntityID = destination
	return nil
}

func (t *Trip) setSource(s Source) error {
	if err := s.Validate(); err != nil {
		return err
	}
	t.source = s
	return nil
}

func dedupe(ids []kernel.UUID) []kernel.UUID {
	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		if !slices.ContainsFunc(out, id.IsEqual) {
			out = append(out, id)
		}
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
