package queries_test

import (
	"context"
	"testing"
	"time"

	"custody/internal/adapters/out/memory"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() ports.UnitOfWork {
	return m.Called().Get(0).(ports.UnitOfWork)
}

type MockUoW struct {
	mock.Mock
	ports.UnitOfWork
}

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func seedBagWithException(t *testing.T, factory ports.UnitOfWorkFactory) *bag.Bag {
	t.Helper()
	ctx := t.Context()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	b, err := bag.NewBag(kernel.NewUUID(), kernel.NewCode(kernel.BagCodePrefix, "H1"), bag.Outbound,
		"H1", "H2", "op-1", at)
	require.NoError(t, err)
	_, err = b.ScanShipment("AWB1")
	require.NoError(t, err)
	require.NoError(t, b.RecordException(bag.Damage, ""))

	e, err := bag.NewException(kernel.NewUUID(), b.ID(), nil, bag.Damage, "", "torn corner", "op-2", at.Add(time.Hour))
	require.NoError(t, err)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.BagRepository().Add(ctx, b))
	require.NoError(t, uow.ExceptionRepository().Add(ctx, e))
	require.NoError(t, uow.Commit(ctx))
	return b
}

func TestGetBagByCodeQueryHandler_Handle(t *testing.T) {
	t.Run("should return the bag with its exceptions", func(t *testing.T) {
		// Given
		factory := memory.NewUnitOfWorkFactory(memory.NewStore())
		b := seedBagWithException(t, factory)
		handler := queries.NewGetBagByCodeQueryHandler(factory)
		query, err := queries.NewGetBagByCodeQuery(b.Code())
		require.NoError(t, err)

		// When
		view, err := handler.Handle(t.Context(), query)

		// Then
		require.NoError(t, err)
		assert.True(t, view.ID.IsEqual(b.ID()))
		assert.Equal(t, "DAMAGE_MARKED", view.Status)
		assert.Equal(t, []string{"AWB1"}, view.ShipmentIDs)
		assert.Equal(t, 1, view.DamageCount)
		require.Len(t, view.Exceptions, 1)
		assert.Equal(t, "DAMAGE", view.Exceptions[0].Type)
		assert.Equal(t, "torn corner", view.Exceptions[0].Description)
	})

	t.Run("should release the store after reading", func(t *testing.T) {
		store := memory.NewStore()
		factory := memory.NewUnitOfWorkFactory(store)
		b := seedBagWithException(t, factory)
		handler := queries.NewGetBagByCodeQueryHandler(factory)
		query, err := queries.NewGetBagByCodeQuery(b.Code())
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), query)
		require.NoError(t, err)

		uow := factory.Create()
		require.NoError(t, uow.Begin(t.Context()))
		require.NoError(t, uow.Rollback(t.Context()))
	})

	t.Run("should return not found for an unknown code", func(t *testing.T) {
		handler := queries.NewGetBagByCodeQueryHandler(memory.NewUnitOfWorkFactory(memory.NewStore()))
		query, err := queries.NewGetBagByCodeQuery("BAG-H1-MISSING")
		require.NoError(t, err)

		view, err := handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Nil(t, view)
	})

	t.Run("should return the begin error", func(t *testing.T) {
		uow := new(MockUoW)
		uow.On("Begin", mock.Anything).Return(context.Canceled)
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow)
		handler := queries.NewGetBagByCodeQueryHandler(factory)
		query, err := queries.NewGetBagByCodeQuery("BAG-H1-1")
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, context.Canceled)
		uow.AssertExpectations(t)
	})

	t.Run("should reject a zero query", func(t *testing.T) {
		handler := queries.NewGetBagByCodeQueryHandler(memory.NewUnitOfWorkFactory(memory.NewStore()))

		_, err := handler.Handle(t.Context(), queries.GetBagByCodeQuery{})

		require.ErrorIs(t, err, queries.ErrGetBagByCodeQueryIsNotConstructed)
	})
}
