package memory_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"custody/internal/adapters/out/memory"
	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newBag(t *testing.T, code string) *bag.Bag {
	t.Helper()
	b, err := bag.NewBag(kernel.NewUUID(), code, bag.Outbound, "H1", "H2", "op-1", now)
	require.NoError(t, err)
	return b
}

func begin(t *testing.T, f *memory.UnitOfWorkFactory) ports.UnitOfWork {
	t.Helper()
	uow := f.Create()
	require.NoError(t, uow.Begin(t.Context()))
	return uow
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	t.Run("should expose committed writes to the next unit of work", func(t *testing.T) {
		f := memory.NewUnitOfWorkFactory(memory.NewStore())
		b := newBag(t, "BAG-H1-0001")

		uow := begin(t, f)
		require.NoError(t, uow.BagRepository().Add(t.Context(), b))
		require.NoError(t, uow.Commit(t.Context()))

		next := begin(t, f)
		defer func() { _ = next.Rollback(t.Context()) }()
		got, err := next.BagRepository().GetByCode(t.Context(), "bag-h1-0001")
		require.NoError(t, err)
		assert.True(t, got.ID().IsEqual(b.ID()))
	})

	t.Run("should discard writes on rollback", func(t *testing.T) {
		f := memory.NewUnitOfWorkFactory(memory.NewStore())
		b := newBag(t, "BAG-H1-0001")

		uow := begin(t, f)
		require.NoError(t, uow.BagRepository().Add(t.Context(), b))
		require.NoError(t, uow.Rollback(t.Context()))

		next := begin(t, f)
		defer func() { _ = next.Rollback(t.Context()) }()
		_, err := next.BagRepository().Get(t.Context(), b.ID())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should treat rollback after commit as a no-op", func(t *testing.T) {
		f := memory.NewUnitOfWorkFactory(memory.NewStore())

		uow := begin(t, f)
		require.NoError(t, uow.Commit(t.Context()))
		assert.ErrorIs(t, uow.Rollback(t.Context()), memory.ErrNoActiveTransaction)

		// the lock was released exactly once
		next := begin(t, f)
		require.NoError(t, next.Rollback(t.Context()))
	})

	t.Run("should reject repository use outside a transaction", func(t *testing.T) {
		f := memory.NewUnitOfWorkFactory(memory.NewStore())

		_, err := f.Create().BagRepository().Get(t.Context(), kernel.NewUUID())

		assert.ErrorIs(t, err, memory.ErrNoActiveTransaction)
	})

	t.Run("should serialize concurrent units of work", func(t *testing.T) {
		f := memory.NewUnitOfWorkFactory(memory.NewStore())
		b := newBag(t, "BAG-H1-0001")
		uow := begin(t, f)
		require.NoError(t, uow.BagRepository().Add(t.Context(), b))
		require.NoError(t, uow.Commit(t.Context()))

		var wg sync.WaitGroup
		added := make(chan bool, 20)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				u := f.Create()
				if err := u.Begin(t.Context()); err != nil {
					return
				}
				defer func() { _ = u.Rollback(t.Context()) }()

				got, err := u.BagRepository().Get(t.Context(), b.ID())
				if err != nil {
					return
				}
				ok, err := got.ScanShipment("AWB1")
				if err != nil || !ok {
					added <- false
					return
				}
				if u.BagRepository().Update(t.Context(), got) != nil {
					return
				}
				added <- u.Commit(t.Context()) == nil
			}()
		}
		wg.Wait()
		close(added)

		var count int
		for ok := range added {
			if ok {
				count++
			}
		}
		assert.Equal(t, 1, count)

		check := begin(t, f)
		defer func() { _ = check.Rollback(t.Context()) }()
		got, err := check.BagRepository().Get(t.Context(), b.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, got.ManifestCount())
	})
}

func TestBagRepository_OpenShipmentIndex(t *testing.T) {
	t.Run("should reject a shipment already held by another open bag", func(t *testing.T) {
		f := memory.NewUnitOfWorkFactory(memory.NewStore())
		first := newBag(t, "BAG-H1-0001")
		second := newBag(t, "BAG-H1-0002")
		_, err := first.ScanShipment("AWB1")
		require.NoError(t, err)

		uow := begin(t, f)
		require.NoError(t, uow.BagRepository().Add(t.Context(), first))
		require.NoError(t, uow.BagRepository().Add(t.Context(), second))
		require.NoError(t, uow.Commit(t.Context()))

		uow = begin(t, f)
		defer func() { _ = uow.Rollback(t.Context()) }()
		_, err = second.ScanShipment("AWB1")
		require.NoError(t, err)

		err = uow.BagRepository().Update(t.Context(), second)

		assert.ErrorIs(t, err, bag.ErrDuplicateCustody)
		assert.ErrorIs(t, err, errs.ErrIntegrityViolation)
	})

	t.Run("should release the shipment once the bag is sealed", func(t *testing.T) {
		f := memory.NewUnitOfWorkFactory(memory.NewStore())
		b := newBag(t, "BAG-H1-0001")
		_, err := b.ScanShipment("AWB1")
		require.NoError(t, err)

		uow := begin(t, f)
		require.NoError(t, uow.BagRepository().Add(t.Context(), b))
		found, err := uow.BagRepository().FindOpenByShipment(t.Context(), "AWB1")
		require.NoError(t, err)
		assert.True(t, found.ID().IsEqual(b.ID()))

		require.NoError(t, b.Seal("SEAL-100", 4, now))
		require.NoError(t, uow.BagRepository().Update(t.Context(), b))
		require.NoError(t, uow.Commit(t.Context()))

		uow = begin(t, f)
		defer func() { _ = uow.Rollback(t.Context()) }()
		_, err = uow.BagRepository().FindOpenByShipment(t.Context(), "AWB1")
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should skip unknown ids in GetMany", func(t *testing.T) {
		f := memory.NewUnitOfWorkFactory(memory.NewStore())
		b := newBag(t, "BAG-H1-0001")

		uow := begin(t, f)
		defer func() { _ = uow.Rollback(t.Context()) }()
		require.NoError(t, uow.BagRepository().Add(t.Context(), b))

		got, err := uow.BagRepository().GetMany(t.Context(), []kernel.UUID{b.ID(), kernel.NewUUID()})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].ID().IsEqual(b.ID()))
	})
}

func TestExceptionRepository(t *testing.T) {
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	bagID := kernel.NewUUID()
	e, err := bag.NewException(kernel.NewUUID(), bagID, nil, bag.Damage, "AWB1", "torn", "op-1", now)
	require.NoError(t, err)

	uow := begin(t, f)
	require.NoError(t, uow.ExceptionRepository().Add(t.Context(), e))
	require.NoError(t, uow.Commit(t.Context()))

	uow = begin(t, f)
	defer func() { _ = uow.Rollback(t.Context()) }()
	got, err := uow.ExceptionRepository().ListByBag(t.Context(), bagID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, bag.Damage, got[0].Type())
}

func TestSheetRepository_ActiveRouteIndex(t *testing.T) {
	newSheet := func(t *testing.T) *sheet.Sheet {
		t.Helper()
		s, err := sheet.NewSheet(kernel.NewUUID(), "CS-H1-0001", "H1", "H2", sheet.LMDC, "op-1", now)
		require.NoError(t, err)
		return s
	}

	t.Run("should reject a second active sheet for the route", func(t *testing.T) {
		f := memory.NewUnitOfWorkFactory(memory.NewStore())
		uow := begin(t, f)
		defer func() { _ = uow.Rollback(t.Context()) }()
		require.NoError(t, uow.SheetRepository().Add(t.Context(), newSheet(t)))

		err := uow.SheetRepository().Add(t.Context(), newSheet(t))

		assert.ErrorIs(t, err, sheet.ErrDuplicateActiveRoute)
	})

	t.Run("should free the route when the sheet closes", func(t *testing.T) {
		f := memory.NewUnitOfWorkFactory(memory.NewStore())
		first := newSheet(t)
		require.NoError(t, first.AddBag(kernel.NewUUID()))

		uow := begin(t, f)
		defer func() { _ = uow.Rollback(t.Context()) }()
		require.NoError(t, uow.SheetRepository().Add(t.Context(), first))
		active, err := uow.SheetRepository().FindActiveByRoute(t.Context(), "H1", "H2")
		require.NoError(t, err)
		assert.True(t, active.ID().IsEqual(first.ID()))

		require.NoError(t, first.Close(now))
		require.NoError(t, uow.SheetRepository().Update(t.Context(), first))

		_, err = uow.SheetRepository().FindActiveByRoute(t.Context(), "H1", "H2")
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.NoError(t, uow.SheetRepository().Add(t.Context(), newSheet(t)))
	})
}

func TestAuditLog(t *testing.T) {
	log := memory.NewAuditLog()
	actor, err := kernel.NewActor("op-1", "HUB_OPERATOR", "H1")
	require.NoError(t, err)
	entry, err := audit.NewEntry(audit.BagOp, actor, "BAG-1", "created", nil, now)
	require.NoError(t, err)

	require.NoError(t, log.Record(t.Context(), entry))
	log.Fail = errors.New("disk full")
	require.Error(t, log.Record(t.Context(), entry))

	assert.Len(t, log.Entries(), 1)
	assert.Len(t, log.ByEntity("BAG-1"), 1)
	assert.Empty(t, log.ByEntity("BAG-2"))
}

func TestShipmentRegistry(t *testing.T) {
	r := memory.NewShipmentRegistry(ports.Shipment{AWB: "AWB1", Status: "BOOKED"})

	got, err := r.FindByAwb(t.Context(), " AWB1 ")
	require.NoError(t, err)
	assert.Equal(t, "BOOKED", got.Status)

	_, err = r.FindByAwb(t.Context(), "AWB9")
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}
