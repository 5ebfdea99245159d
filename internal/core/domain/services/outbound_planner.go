package services

import (
	"fmt"
	"time"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/domain/model/trip"
	"custody/internal/pkg/errs"
)

var (
	ErrSheetNotFound    = errs.NewObjectNotFoundError("connection sheet", "connection sheet")
	ErrRoutingConflict  = errs.NewIntegrityViolationError("all sheets in one dispatch must share one destination")
	ErrSheetNotClosed   = errs.NewStateConflictError("sheet", "must be CLOSED before dispatch")
	ErrUnknownSheetBags = errs.NewIntegrityViolationError("sheet references a bag that does not exist")
)

// OutboundRequest describes a hub-to-hub dispatch.
type OutboundRequest struct {
	TripID        kernel.UUID
	Code          string
	HubID         string
	DestinationID string
	SheetIDs      []kernel.UUID
	Manifest      trip.Manifest
	CreatedBy     string
	At            time.Time
}

// OutboundPlan is the outcome of a successful dispatch. LeftBehind lists
// exception-marked bags that stay at the hub for investigation.
type OutboundPlan struct {
	Trip       *trip.Trip
	Sheets     []*sheet.Sheet
	Bags       []*bag.Bag
	LeftBehind []*bag.Bag
}

// OutboundPlanner consolidates closed connection sheets into one outbound
// trip. It mutates the sheets and bags it is given and never persists; the
// caller commits the plan in one unit of work so a failure leaves nothing
// half-dispatched.
//
// Validation order:
//   - no sheets selected
//   - incomplete vehicle/driver manifest
//   - a sheet id that does not resolve to a sheet of this hub
//   - a sheet bound for another destination
//   - a sheet that is not CLOSED
type OutboundPlanner struct{}

func NewOutboundPlanner() OutboundPlanner {
	return OutboundPlanner{}
}

// ValidateRequest runs the checks that need no stored state.
func (p OutboundPlanner) ValidateRequest(sheetIDs []kernel.UUID, manifest trip.Manifest) error {
	if len(sheetIDs) == 0 {
		return trip.ErrNoSheetsSelected
	}
	return manifest.ValidateComplete()
}

// BagIDs returns the union of bag ids across sheets in first-seen order.
func (p OutboundPlanner) BagIDs(sheets []*sheet.Sheet) []kernel.UUID {
	seen := make(map[kernel.UUID]struct{})
	ids := make([]kernel.UUID, 0)
	for _, s := range sheets {
		for _, id := range s.BagIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Plan dispatches sheets found for req.SheetIDs together with the bags they
// reference. sheets may be missing entries; bags must contain every bag
// referenced by the selected sheets.
func (p OutboundPlanner) Plan(req OutboundRequest, sheets []*sheet.Sheet, bags []*bag.Bag) (*OutboundPlan, error) {
	if err := p.ValidateRequest(req.SheetIDs, req.Manifest); err != nil {
		return nil, err
	}

	selected, err := p.resolveSheets(req, sheets)
	if err != nil {
		return nil, err
	}

	for _, s := range selected {
		if s.DestinationID() != req.DestinationID {
			return nil, fmt.Errorf("%w: sheet %s goes to %s, trip goes to %s",
				ErrRoutingConflict, s.Code(), s.DestinationID(), req.DestinationID)
		}
	}

	for _, s := range selected {
		if s.Status() != sheet.Closed {
			return nil, fmt.Errorf("%w: sheet %s is %s", ErrSheetNotClosed, s.Code(), s.Status())
		}
	}

	bagByID := make(map[kernel.UUID]*bag.Bag, len(bags))
	for _, b := range bags {
		bagByID[b.ID()] = b
	}

	sheetOf := make(map[kernel.UUID]kernel.UUID)
	for _, s := range selected {
		for _, id := range s.BagIDs() {
			if _, ok := sheetOf[id]; !ok {
				sheetOf[id] = s.ID()
			}
		}
	}

	plan := &OutboundPlan{Sheets: selected}
	loadIDs := make([]kernel.UUID, 0)
	for _, id := range p.BagIDs(selected) {
		b, ok := bagByID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSheetBags, id)
		}
		if b.Status().IsTerminal() {
			plan.LeftBehind = append(plan.LeftBehind, b)
			continue
		}
		plan.Bags = append(plan.Bags, b)
		loadIDs = append(loadIDs, id)
	}

	t, err := trip.NewOutboundTrip(req.TripID, req.Code, req.HubID, req.DestinationID, req.Manifest,
		req.SheetIDs, loadIDs, req.CreatedBy, req.At)
	if err != nil {
		return nil, err
	}
	plan.Trip = t

	for _, b := range plan.Bags {
		if err = b.DispatchFromSheet(t.ID(), sheetOf[b.ID()]); err != nil {
			return nil, err
		}
	}

	for _, s := range selected {
		if err = s.MarkDispatched(t.ID()); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

func (p OutboundPlanner) resolveSheets(req OutboundRequest, sheets []*sheet.Sheet) ([]*sheet.Sheet, error) {
	byID := make(map[kernel.UUID]*sheet.Sheet, len(sheets))
	for _, s := range sheets {
		if s == nil {
			continue
		}
		byID[s.ID()] = s
	}

	selected := make([]*sheet.Sheet, 0, len(req.SheetIDs))
	seen := make(map[kernel.UUID]struct{}, len(req.SheetIDs))
	for _, id := range req.SheetIDs {
		s, ok := byID[id]
		if !ok || s.HubID() != req.HubID {
			return nil, fmt.Errorf("%w: %s at hub %s", ErrSheetNotFound, id, req.HubID)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, s)
	}
	return selected, nil
}
