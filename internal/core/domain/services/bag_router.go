package services

import (
	"fmt"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/sheet"
)

// BagRouter connects bags to connection sheets. It owns the rules that need
// both aggregates: bag readiness for the sheet's hub and the two-sided link.
//
// A bag is ready for a sheet when it was verified inbound at the hub, or when
// it originated at the sheet's hub and is still CREATED or SEALED.
//
// Example usage:
//
//	router := services.NewBagRouter()
//	if err := router.Route(s, b); errors.Is(err, sheet.ErrBagNotReady) {
//	    // bag has to be verified first
//	}
type BagRouter struct{}

// NewBagRouter creates a stateless router.
func NewBagRouter() BagRouter {
	return BagRouter{}
}

// Route links b to s. Checks run in this order: sheet status, bag readiness,
// existing connection.
//
// A bag that was already connected to s on its own side only is accepted and
// the sheet side of the link is completed.
func (r BagRouter) Route(s *sheet.Sheet, b *bag.Bag) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}

	if err := s.ValidateAddBag(); err != nil {
		return err
	}

	if r.isPending(s, b) {
		return s.AddBag(b.ID())
	}

	if !r.IsReady(s, b) {
		return fmt.Errorf("%w: bag %s is %s", sheet.ErrBagNotReady, b.Code(), b.Status())
	}

	if err := b.Connect(s.ID()); err != nil {
		return err
	}

	return s.AddBag(b.ID())
}

// Connect links the bag side only. The sheet must still accept bags and b
// must be ready for it, the same as for Route.
//
// Errors:
//   - sheet.ErrInvalidState if s is CLOSED or DISPATCHED
//   - sheet.ErrBagNotReady if b is not ready for s
//   - bag.ErrAlreadyConnected if b already references a sheet
func (r BagRouter) Connect(s *sheet.Sheet, b *bag.Bag) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}

	if err := s.ValidateAddBag(); err != nil {
		return err
	}

	if !r.IsReady(s, b) {
		return fmt.Errorf("%w: bag %s is %s", sheet.ErrBagNotReady, b.Code(), b.Status())
	}

	return b.Connect(s.ID())
}

// IsReady reports whether b may be routed onto s.
func (r BagRouter) IsReady(s *sheet.Sheet, b *bag.Bag) bool {
	switch b.Status() {
	case bag.InboundReceived:
		return true
	case bag.Created, bag.Sealed:
		return b.OriginatedAt(s.HubID())
	default:
		return false
	}
}

func (r BagRouter) isPending(s *sheet.Sheet, b *bag.Bag) bool {
	if b.Status() != bag.Connected {
		return false
	}
	id := b.ConnectionSheetID()
	return id != nil && id.IsEqual(s.ID())
}
