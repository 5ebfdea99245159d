package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/domain/model/trip"
)

// snapshot copies the committed state. It waits for an in-flight unit of
// work to finish.
func (s *Store) snapshot(ctx context.Context) (memoryState, error) {
	if err := ctx.Err(); err != nil {
		return memoryState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone(), nil
}

// DispatchableSheetsQueryHandler answers queries.GetDispatchableSheetsQuery.
type DispatchableSheetsQueryHandler struct {
	store *Store
}

func NewDispatchableSheetsQueryHandler(store *Store) DispatchableSheetsQueryHandler {
	return DispatchableSheetsQueryHandler{store: store}
}

func (h DispatchableSheetsQueryHandler) Handle(
	ctx context.Context,
	query queries.GetDispatchableSheetsQuery,
) ([]queries.DispatchableSheet, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	st, err := h.store.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]queries.DispatchableSheet, 0)
	for _, s := range st.sheets {
		if s.Status != sheet.Closed || s.HubID != query.HubID() {
			continue
		}
		if query.DestinationID() != "" && s.DestinationID != query.DestinationID() {
			continue
		}
		out = append(out, queries.DispatchableSheet{
			ID:              s.ID,
			Code:            s.Code,
			HubID:           s.HubID,
			DestinationID:   s.DestinationID,
			DestinationType: s.DestinationType.String(),
			BagCount:        len(s.BagIDs),
			ClosedAt:        cloneTime(s.ClosedAt),
		})
	}

	slices.SortFunc(out, func(a, b queries.DispatchableSheet) int {
		return cmp.Or(compareTimes(a.ClosedAt, b.ClosedAt), cmp.Compare(a.Code, b.Code))
	})
	return out, nil
}

// OpenExceptionsQueryHandler answers queries.GetOpenExceptionsQuery.
type OpenExceptionsQueryHandler struct {
	store *Store
}

func NewOpenExceptionsQueryHandler(store *Store) OpenExceptionsQueryHandler {
	return OpenExceptionsQueryHandler{store: store}
}

func (h OpenExceptionsQueryHandler) Handle(
	ctx context.Context,
	query queries.GetOpenExceptionsQuery,
) (*queries.GetOpenExceptionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	st, err := h.store.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	resp := &queries.GetOpenExceptionsQueryResponse{
		Bags:   make([]queries.OpenExceptionBag, 0),
		ByType: make(map[string]int),
	}

	for id, b := range st.bags {
		if b.Status != bag.ShortageMarked && b.Status != bag.DamageMarked {
			continue
		}

		var last time.Time
		for _, e := range st.exceptions[id] {
			if e.ReportedAt().After(last) {
				last = e.ReportedAt()
			}
			if !e.ReportedAt().Before(query.Since()) {
				resp.ByType[e.Type().String()]++
			}
		}
		if last.IsZero() || last.Before(query.Since()) {
			continue
		}

		resp.Bags = append(resp.Bags, queries.OpenExceptionBag{
			BagID:          b.ID,
			BagCode:        b.Code,
			Status:         b.Status.String(),
			LocationID:     b.CurrentLocationID,
			ShortageCount:  b.ShortageCount,
			DamageCount:    b.DamageCount,
			LastReportedAt: last,
		})
	}

	slices.SortFunc(resp.Bags, func(a, b queries.OpenExceptionBag) int {
		return cmp.Or(b.LastReportedAt.Compare(a.LastReportedAt), cmp.Compare(a.BagCode, b.BagCode))
	})
	return resp, nil
}

// StaleTripsQueryHandler answers queries.GetStaleTripsQuery.
type StaleTripsQueryHandler struct {
	store *Store
}

func NewStaleTripsQueryHandler(store *Store) StaleTripsQueryHandler {
	return StaleTripsQueryHandler{store: store}
}

func (h StaleTripsQueryHandler) Handle(ctx context.Context, query queries.GetStaleTripsQuery) ([]queries.StaleTrip, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	st, err := h.store.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]queries.StaleTrip, 0)
	for _, t := range st.trips {
		if t.Status != trip.InTransit || t.DispatchedAt == nil || !t.DispatchedAt.Before(query.DispatchedBefore()) {
			continue
		}
		out = append(out, queries.StaleTrip{
			ID:                  t.ID,
			Code:                t.Code,
			OriginEntityID:      t.OriginEntityID,
			DestinationEntityID: t.DestinationEntityID,
			VehicleNumber:       t.Manifest.VehicleNumber(),
			DriverName:          t.Manifest.DriverName(),
			DriverPhone:         t.Manifest.DriverPhone(),
			BagCount:            len(t.BagIDs),
			DispatchedAt:        *t.DispatchedAt,
		})
	}

	slices.SortFunc(out, func(a, b queries.StaleTrip) int {
		return cmp.Or(a.DispatchedAt.Compare(b.DispatchedAt), cmp.Compare(a.Code, b.Code))
	})
	return out, nil
}

func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
