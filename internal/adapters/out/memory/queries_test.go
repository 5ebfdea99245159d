package memory_test

import (
	"context"
	"testing"
	"time"

	"custody/internal/adapters/out/memory"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commit(t *testing.T, f *memory.UnitOfWorkFactory, fn func(ctx context.Context, uow ports.UnitOfWork)) {
	t.Helper()
	uow := begin(t, f)
	fn(t.Context(), uow)
	require.NoError(t, uow.Commit(t.Context()))
}

func TestDispatchableSheetsQueryHandler(t *testing.T) {
	store := memory.NewStore()
	f := memory.NewUnitOfWorkFactory(store)

	closedSheet := func(hub, dest string, closedAt time.Time) *sheet.Sheet {
		s, err := sheet.NewSheet(kernel.NewUUID(), kernel.NewCode(kernel.SheetCodePrefix, hub), hub, dest, sheet.LMDC, "op-1", now)
		require.NoError(t, err)
		require.NoError(t, s.AddBag(kernel.NewUUID()))
		require.NoError(t, s.Close(closedAt))
		return s
	}
	later := closedSheet("H1", "H2", now.Add(time.Hour))
	earlier := closedSheet("H1", "H3", now)
	other := closedSheet("H9", "H2", now)
	open, err := sheet.NewSheet(kernel.NewUUID(), kernel.NewCode(kernel.SheetCodePrefix, "H1"), "H1", "H4", sheet.LMDC, "op-1", now)
	require.NoError(t, err)

	commit(t, f, func(ctx context.Context, uow ports.UnitOfWork) {
		for _, s := range []*sheet.Sheet{later, earlier, other, open} {
			require.NoError(t, uow.SheetRepository().Add(ctx, s))
		}
	})

	handler := memory.NewDispatchableSheetsQueryHandler(store)

	query, err := queries.NewGetDispatchableSheetsQuery("H1", "")
	require.NoError(t, err)
	got, err := handler.Handle(t.Context(), query)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, earlier.Code(), got[0].Code)
	assert.Equal(t, later.Code(), got[1].Code)
	assert.Equal(t, 1, got[0].BagCount)

	query, err = queries.NewGetDispatchableSheetsQuery("H1", "H2")
	require.NoError(t, err)
	got, err = handler.Handle(t.Context(), query)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, later.Code(), got[0].Code)
}

func TestOpenExceptionsQueryHandler(t *testing.T) {
	store := memory.NewStore()
	f := memory.NewUnitOfWorkFactory(store)

	marked := func(kind bag.ExceptionType, at time.Time) (*bag.Bag, *bag.Exception) {
		b := newBag(t, kernel.NewCode(kernel.BagCodePrefix, "H1"))
		require.NoError(t, b.RecordException(kind, ""))
		e, err := bag.NewException(kernel.NewUUID(), b.ID(), nil, kind, "", "", "op-2", at)
		require.NoError(t, err)
		return b, e
	}
	recent, recentEx := marked(bag.Shortage, now)
	stale, staleEx := marked(bag.Damage, now.Add(-72*time.Hour))
	clean := newBag(t, kernel.NewCode(kernel.BagCodePrefix, "H1"))

	commit(t, f, func(ctx context.Context, uow ports.UnitOfWork) {
		for _, b := range []*bag.Bag{recent, stale, clean} {
			require.NoError(t, uow.BagRepository().Add(ctx, b))
		}
		require.NoError(t, uow.ExceptionRepository().Add(ctx, recentEx))
		require.NoError(t, uow.ExceptionRepository().Add(ctx, staleEx))
	})

	query, err := queries.NewGetOpenExceptionsQuery(now.Add(-24 * time.Hour))
	require.NoError(t, err)

	resp, err := memory.NewOpenExceptionsQueryHandler(store).Handle(t.Context(), query)

	require.NoError(t, err)
	require.Len(t, resp.Bags, 1)
	assert.Equal(t, recent.Code(), resp.Bags[0].BagCode)
	assert.Equal(t, "SHORTAGE_MARKED", resp.Bags[0].Status)
	assert.Equal(t, map[string]int{"SHORTAGE": 1}, resp.ByType)
}

func TestStaleTripsQueryHandler(t *testing.T) {
	store := memory.NewStore()
	f := memory.NewUnitOfWorkFactory(store)
	manifest := trip.NewManifest("KA01", "TRUCK", "Asha", "+910000000000")

	outbound := func(dispatchedAt time.Time) *trip.Trip {
		tr, err := trip.NewOutboundTrip(kernel.NewUUID(), kernel.NewCode(kernel.TripCodePrefix, "H1"), "H1", "H2",
			manifest, []kernel.UUID{kernel.NewUUID()}, []kernel.UUID{kernel.NewUUID()}, "op-1", dispatchedAt)
		require.NoError(t, err)
		return tr
	}
	stale := outbound(now.Add(-48 * time.Hour))
	fresh := outbound(now)
	arrived := outbound(now.Add(-72 * time.Hour))
	require.NoError(t, arrived.MarkArrived(now))

	commit(t, f, func(ctx context.Context, uow ports.UnitOfWork) {
		for _, tr := range []*trip.Trip{stale, fresh, arrived} {
			require.NoError(t, uow.TripRepository().Add(ctx, tr))
		}
	})

	query, err := queries.NewGetStaleTripsQuery(now.Add(-24 * time.Hour))
	require.NoError(t, err)

	got, err := memory.NewStaleTripsQueryHandler(store).Handle(t.Context(), query)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].ID.IsEqual(stale.ID()))
	assert.Equal(t, "Asha", got[0].DriverName)
	assert.Equal(t, 1, got[0].BagCount)
}

func TestQueryHandlersRespectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	query, err := queries.NewGetStaleTripsQuery(now)
	require.NoError(t, err)

	_, err = memory.NewStaleTripsQueryHandler(memory.NewStore()).Handle(ctx, query)

	require.ErrorIs(t, err, context.Canceled)
}
