package bag

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
	// ErrBagIsNotConstructed is returned when a Bag was not created through NewBag or Restore.
	ErrBagIsNotConstructed = errors.New("Bag must be created via NewBag constructor")

	ErrInvalidState     = errs.NewStateConflictError("bag", "operation is not allowed in the current status")
	ErrEmptyBag         = errs.NewStateConflictError("bag", "has no shipments")
	ErrInvalidSeal      = errs.NewValueIsInvalidError("seal number")
	ErrSealMismatch     = errs.NewIntegrityViolationError("presented seal does not match the recorded seal")
	ErrDuplicateCustody = errs.NewIntegrityViolationError("shipment is already inside another open bag")
	ErrAlreadyConnected = errs.NewIntegrityViolationError("bag is already connected to a connection sheet")
)

// Bag is the aggregate root for a physical container of shipments.
//
// Bag follows these invariants:
//   - origin and destination never change after creation
//   - the seal number and seal time are set exactly once
//   - shipment ids form an ordered set; manifest and actual counts track its size
//     while the bag is open and diverge only through inbound exceptions
//   - shortage and damage counters only grow
//   - an exception-marked bag never leaves its terminal status
//   - the connection sheet and trip references are written only on behalf of the
//     sheet and trip engines (Connect, Dispatch, DispatchFromSheet)
//   - a bag that references a sheet leaves the hub only with that sheet
type Bag struct {
	id                  kernel.UUID
	code                string
	bagType             Type
	status              Status
	originEntityID      string
	destinationEntityID string
	currentLocationID   string

	manifestCount int
	actualCount   int
	shortageCount int
	damageCount   int

	shipmentIDs []string

	sealNumber string
	sealedAt   *time.Time

	currentConnectionSheetID *kernel.UUID
	currentTripID            *kernel.UUID

	createdBy string
	createdAt time.Time

	guard guard.ConstructorGuard
}

// State is the flat persistence view of a Bag. Repositories convert it to and
// from their storage representation; Restore rebuilds the aggregate from it.
type State struct {
	ID                       kernel.UUID
	Code                     string
	Type                     Type
	Status                   Status
	OriginEntityID           string
	DestinationEntityID      string
	CurrentLocationID        string
	ManifestCount            int
	ActualCount              int
	ShortageCount            int
	DamageCount              int
	ShipmentIDs              []string
	SealNumber               string
	SealedAt                 *time.Time
	CurrentConnectionSheetID *kernel.UUID
	CurrentTripID            *kernel.UUID
	CreatedBy                string
	CreatedAt                time.Time
}

// NewBag creates an empty bag at the origin hub in Created status.
//
// Example:
//
//	b, err := bag.NewBag(kernel.NewUUID(), kernel.NewCode(kernel.BagCodePrefix, "H1"),
//	    bag.Outbound, "H1", "H2", "op-7", time.Now())
func NewBag(
	id kernel.UUID,
	code string,
	bagType Type,
	originEntityID string,
	destinationEntityID string,
	createdBy string,
	createdAt time.Time,
) (*Bag, error) {
	b := &Bag{
		status:            Created,
		currentLocationID: strings.TrimSpace(originEntityID),
		shipmentIDs:       make([]string, 0),
		createdBy:         createdBy,
		createdAt:         createdAt,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setCode(code),
		b.setType(bagType),
		b.setRoute(originEntityID, destinationEntityID),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// Restore rebuilds a Bag from persisted state.
func Restore(s State) (*Bag, error) {
	b := &Bag{
		currentLocationID:        s.CurrentLocationID,
		manifestCount:            s.ManifestCount,
		actualCount:              s.ActualCount,
		shortageCount:            s.ShortageCount,
		damageCount:              s.DamageCount,
		shipmentIDs:              slices.Clone(s.ShipmentIDs),
		sealNumber:               s.SealNumber,
		sealedAt:                 cloneTime(s.SealedAt),
		currentConnectionSheetID: cloneUUID(s.CurrentConnectionSheetID),
		currentTripID:            cloneUUID(s.CurrentTripID),
		createdBy:                s.CreatedBy,
		createdAt:                s.CreatedAt,
		guard:                    guard.NewConstructorGuard(),
	}
	if b.shipmentIDs == nil {
		b.shipmentIDs = make([]string, 0)
	}

	if err := errors.Join(
		b.setID(s.ID),
		b.setCode(s.Code),
		b.setType(s.Type),
		b.setRoute(s.OriginEntityID, s.DestinationEntityID),
		b.setStatus(s.Status),
		validateCounters(s.ManifestCount, s.ActualCount, s.ShortageCount, s.DamageCount),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// Validate ensures the bag was created through NewBag or Restore.
func (b *Bag) Validate() error {
	if b == nil {
		return ErrBagIsNotConstructed
	}
	return b.guard.Validate(ErrBagIsNotConstructed)
}

// State returns a copy of the bag's persistable state.
func (b *Bag) State() State {
	return State{
		ID:                       b.id,
		Code:                     b.code,
		Type:                     b.bagType,
		Status:                   b.status,
		OriginEntityID:           b.originEntityID,
		DestinationEntityID:      b.destinationEntityID,
		CurrentLocationID:        b.currentLocationID,
		ManifestCount:            b.manifestCount,
		ActualCount:              b.actualCount,
		ShortageCount:            b.shortageCount,
		DamageCount:              b.damageCount,
		ShipmentIDs:              slices.Clone(b.shipmentIDs),
		SealNumber:               b.sealNumber,
		SealedAt:                 cloneTime(b.sealedAt),
		CurrentConnectionSheetID: cloneUUID(b.currentConnectionSheetID),
		CurrentTripID:            cloneUUID(b.currentTripID),
		CreatedBy:                b.createdBy,
		CreatedAt:                b.createdAt,
	}
}

func (b *Bag) ID() kernel.UUID                 { return b.id }
func (b *Bag) Code() string                    { return b.code }
func (b *Bag) Type() Type                      { return b.bagType }
func (b *Bag) Status() Status                  { return b.status }
func (b *Bag) OriginEntityID() string          { return b.originEntityID }
func (b *Bag) DestinationEntityID() string     { return b.destinationEntityID }
func (b *Bag) CurrentLocationID() string       { return b.currentLocationID }
func (b *Bag) ManifestCount() int              { return b.manifestCount }
func (b *Bag) ActualCount() int                { return b.actualCount }
func (b *Bag) ShortageCount() int              { return b.shortageCount }
func (b *Bag) DamageCount() int                { return b.damageCount }
func (b *Bag) SealNumber() string              { return b.sealNumber }
func (b *Bag) CreatedBy() string               { return b.createdBy }
func (b *Bag) CreatedAt() time.Time            { return b.createdAt }
func (b *Bag) ShipmentIDs() []string           { return slices.Clone(b.shipmentIDs) }
func (b *Bag) SealedAt() *time.Time            { return cloneTime(b.sealedAt) }
func (b *Bag) ConnectionSheetID() *kernel.UUID { return cloneUUID(b.currentConnectionSheetID) }
func (b *Bag) TripID() *kernel.UUID            { return cloneUUID(b.currentTripID) }

// Contains reports whether the shipment is inside the bag.
func (b *Bag) Contains(shipmentID string) bool {
	return slices.Contains(b.shipmentIDs, shipmentID)
}

// OriginatedAt reports whether the bag was created at the given hub.
func (b *Bag) OriginatedAt(entityID string) bool {
	return b.originEntityID == strings.TrimSpace(entityID)
}

// ValidateScan reports ErrInvalidState when the bag no longer accepts shipments.
func (b *Bag) ValidateScan() error {
	_, err := b.status.apply(opScan)
	return err
}

// ScanShipment appends a shipment to an open bag and keeps manifest and actual
// counts equal to the content size. Rescanning a shipment already in this bag
// is a no-op and reports added=false.
//
// Custody across bags (the same shipment in another open bag) cannot be seen
// from a single aggregate; callers check it before scanning.
func (b *Bag) ScanShipment(shipmentID string) (bool, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return false, errs.NewValueIsRequiredError("shipment id")
	}

	next, err := b.status.apply(opScan)
	if err != nil {
		return false, err
	}

	if b.Contains(shipmentID) {
		return false, nil
	}

	b.shipmentIDs = append(b.shipmentIDs, shipmentID)
	b.manifestCount = len(b.shipmentIDs)
	b.actualCount = len(b.shipmentIDs)
	b.status = next
	return true, nil
}

// Seal closes the bag with a tamper-evident seal. Checks run in this order:
// status, contents (outbound-class bags only), seal length.
func (b *Bag) Seal(sealNumber string, minLength int, at time.Time) error {
	next, err := b.status.apply(opSeal)
	if err != nil {
		return err
	}

	if b.bagType.RequiresContents() && len(b.shipmentIDs) == 0 {
		return fmt.Errorf("%w: %s bag %s", ErrEmptyBag, b.bagType, b.code)
	}

	sealNumber = strings.TrimSpace(sealNumber)
	if len(sealNumber) < minLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrInvalidSeal, minLength)
	}

	sealedAt := at
	b.sealNumber = sealNumber
	b.sealedAt = &sealedAt
	b.status = next
	return nil
}

// VerifyInbound checks the presented seal against the recorded one and marks
// the bag received at locationID. A bag already InboundReceived is returned
// unchanged with changed=false so rescans are safe.
func (b *Bag) VerifyInbound(presentedSeal string, locationID string) (bool, error) {
	if b.status == InboundReceived {
		return false, nil
	}

	next, err := b.status.apply(opVerifyInbound)
	if err != nil {
		return false, err
	}

	if strings.TrimSpace(presentedSeal) != b.sealNumber {
		return false, fmt.Errorf("%w: bag %s", ErrSealMismatch, b.code)
	}

	b.receiveInbound(next, locationID)
	return true, nil
}

// OverrideInbound marks the bag received without comparing seals. It exists
// for audited supervisor overrides only; the caller records who and why.
func (b *Bag) OverrideInbound(locationID string) (bool, error) {
	if b.status == InboundReceived {
		return false, nil
	}

	next, err := b.status.apply(opVerifyInbound)
	if err != nil {
		return false, err
	}

	b.receiveInbound(next, locationID)
	return true, nil
}

// Connect attaches the bag to a connection sheet. The sheet side of the link is
// owned by the sheet aggregate.
func (b *Bag) Connect(sheetID kernel.UUID) error {
	if err := sheetID.Validate(); err != nil {
		return err
	}

	next, err := b.status.apply(opConnect)
	if err != nil {
		return err
	}

	if b.currentConnectionSheetID != nil {
		return fmt.Errorf("%w: bag %s is on sheet %s", ErrAlreadyConnected, b.code, b.currentConnectionSheetID)
	}

	b.currentConnectionSheetID = &sheetID
	b.status = next
	return nil
}

// Dispatch hands a loose bag to a manually loaded trip. The bag must be
// SEALED, INBOUND_RECEIVED or RECEIVED.
//
// A bag that sits on a connection sheet belongs to that sheet until the sheet
// is dispatched, so Dispatch fails with ErrAlreadyConnected for it; use
// DispatchFromSheet instead.
func (b *Bag) Dispatch(tripID kernel.UUID) error {
	if err := tripID.Validate(); err != nil {
		return err
	}

	if b.currentConnectionSheetID != nil {
		return fmt.Errorf("%w: bag %s is on sheet %s", ErrAlreadyConnected, b.code, b.currentConnectionSheetID)
	}

	next, err := b.status.apply(opDispatch)
	if err != nil {
		return err
	}

	b.currentTripID = &tripID
	b.status = next
	return nil
}

// DispatchFromSheet hands a CONNECTED bag to the trip that carries its sheet.
// It fails with ErrAlreadyConnected when the bag references a different sheet.
func (b *Bag) DispatchFromSheet(tripID, sheetID kernel.UUID) error {
	if err := errors.Join(tripID.Validate(), sheetID.Validate()); err != nil {
		return err
	}

	next, err := b.status.apply(opDispatchConnected)
	if err != nil {
		return err
	}

	if b.currentConnectionSheetID == nil || !b.currentConnectionSheetID.IsEqual(sheetID) {
		return fmt.Errorf("%w: bag %s is not on sheet %s", ErrAlreadyConnected, b.code, sheetID)
	}

	b.currentTripID = &tripID
	b.status = next
	return nil
}

// Depart marks a dispatched bag as moving with its trip.
func (b *Bag) Depart() error {
	next, err := b.status.apply(opDepart)
	if err != nil {
		return err
	}

	b.status = next
	return nil
}

// Receive is the simple inbound marker used by trips that skip per-bag seal
// verification.
func (b *Bag) Receive(locationID string) error {
	next, err := b.status.apply(opReceive)
	if err != nil {
		return err
	}

	if loc := strings.TrimSpace(locationID); loc != "" {
		b.currentLocationID = loc
	}
	b.currentConnectionSheetID = nil
	b.status = next
	return nil
}

// RecordException applies a finding to the bag's counters and status.
//
//   - Shortage: shortageCount+1, status ShortageMarked; a named shipment lowers actualCount
//   - Damage: damageCount+1, status DamageMarked
//   - Excess: a named shipment raises actualCount; status is unchanged
//
// A bag that is already terminal keeps its first terminal marker while the
// counters still grow.
func (b *Bag) RecordException(exceptionType ExceptionType, shipmentID string) error {
	if err := exceptionType.Validate(); err != nil {
		return err
	}

	switch exceptionType {
	case Shortage:
		if err := b.markTerminal(opMarkShortage); err != nil {
			return err
		}
		b.shortageCount++
		if shipmentID != "" && b.actualCount > 0 {
			b.actualCount--
		}
	case Damage:
		if err := b.markTerminal(opMarkDamage); err != nil {
			return err
		}
		b.damageCount++
	case Excess:
		if b.status == Unknown {
			return fmt.Errorf("%w: cannot record excess on bag in status %s", ErrInvalidState, b.status)
		}
		if shipmentID != "" {
			b.actualCount++
		}
	}

	return nil
}

func (b *Bag) markTerminal(op operation) error {
	if b.status.IsTerminal() {
		return nil
	}
	next, err := b.status.apply(op)
	if err != nil {
		return err
	}
	b.status = next
	return nil
}

func (b *Bag) receiveInbound(next Status, locationID string) {
	if loc := strings.TrimSpace(locationID); loc != "" {
		b.currentLocationID = loc
	}
	// The sheet this bag travelled under belongs to the previous hub; clearing it
	// lets the receiving hub route the bag onto its own sheet.
	b.currentConnectionSheetID = nil
	b.status = next
}

func (b *Bag) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Bag) setCode(code string) error {
	normalized, err := kernel.NormalizeCode(code)
	if err != nil {
		return err
	}
	b.code = normalized
	return nil
}

func (b *Bag) setType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	b.bagType = t
	return nil
}

func (b *Bag) setRoute(originEntityID, destinationEntityID string) error {
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

	b.originEntityID = origin
	b.destinationEntityID = destination
	return nil
}

func (b *Bag) setStatus(s Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	b.status = s
	return nil
}

func validateCounters(manifest, actual, shortage, damage int) error {
	for name, v := range map[string]int{
		"manifest count": manifest,
		"actual count":   actual,
		"shortage count": shortage,
		"damage count":   damage,
	} {
		if v < 0 {
			return errs.NewValueIsOutOfRangeError(name, v, 0, "unbounded")
		}
	}
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
