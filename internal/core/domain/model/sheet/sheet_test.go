package sheet_test

import (
	"testing"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newSheet(t *testing.T) *sheet.Sheet {
	t.Helper()
	s, err := sheet.NewSheet(kernel.NewUUID(), "cs-h2-01", "H2", "LMDC-3", sheet.LMDC, "op-1", now)
	require.NoError(t, err)
	return s
}

func TestNewSheet(t *testing.T) {
	t.Run("should create an empty sheet", func(t *testing.T) {
		s := newSheet(t)

		require.NoError(t, s.Validate())
		assert.Equal(t, "CS-H2-01", s.Code())
		assert.Equal(t, sheet.Created, s.Status())
		assert.True(t, s.Status().IsActive())
		assert.Zero(t, s.BagCount())
		assert.Nil(t, s.ClosedAt())
	})

	t.Run("should fail with missing route and type", func(t *testing.T) {
		s, err := sheet.NewSheet(kernel.NewUUID(), "CS-1", "", "", sheet.UnknownDestination, "op-1", now)

		require.Error(t, err)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestSheet_AddBag(t *testing.T) {
	t.Run("should move to in progress on first bag", func(t *testing.T) {
		s := newSheet(t)
		b1, b2 := kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, s.AddBag(b1))
		require.NoError(t, s.AddBag(b2))
		require.NoError(t, s.AddBag(b1))

		assert.Equal(t, sheet.InProgress, s.Status())
		assert.Equal(t, []kernel.UUID{b1, b2}, s.BagIDs())
	})

	t.Run("should reject bags once closed", func(t *testing.T) {
		s := newSheet(t)
		require.NoError(t, s.AddBag(kernel.NewUUID()))
		require.NoError(t, s.Close(now))

		err := s.AddBag(kernel.NewUUID())

		require.ErrorIs(t, err, sheet.ErrInvalidState)
		assert.ErrorIs(t, s.ValidateAddBag(), errs.ErrStateConflict)
		assert.Equal(t, 1, s.BagCount())
	})
}

func TestSheet_Close(t *testing.T) {
	t.Run("should fail while empty", func(t *testing.T) {
		s := newSheet(t)

		err := s.Close(now)

		require.ErrorIs(t, err, sheet.ErrEmptySheet)
		assert.Equal(t, sheet.Created, s.Status())
	})

	t.Run("should close once and stamp the time", func(t *testing.T) {
		s := newSheet(t)
		require.NoError(t, s.AddBag(kernel.NewUUID()))

		require.NoError(t, s.Close(now))

		assert.Equal(t, sheet.Closed, s.Status())
		assert.False(t, s.Status().IsActive())
		assert.Equal(t, now, *s.ClosedAt())
		require.ErrorIs(t, s.Close(now), sheet.ErrInvalidState)
	})
}

func TestSheet_MarkDispatched(t *testing.T) {
	t.Run("should require a closed sheet", func(t *testing.T) {
		s := newSheet(t)
		require.NoError(t, s.AddBag(kernel.NewUUID()))

		require.ErrorIs(t, s.MarkDispatched(kernel.NewUUID()), sheet.ErrInvalidState)

		require.NoError(t, s.Close(now))
		tripID := kernel.NewUUID()
		require.NoError(t, s.MarkDispatched(tripID))

		assert.Equal(t, sheet.Dispatched, s.Status())
		assert.True(t, s.TripID().IsEqual(tripID))
		assert.ErrorIs(t, s.Close(now), sheet.ErrInvalidState)
	})
}

func TestRestore(t *testing.T) {
	s := newSheet(t)
	require.NoError(t, s.AddBag(kernel.NewUUID()))
	require.NoError(t, s.Close(now))

	restored, err := sheet.Restore(s.State())

	require.NoError(t, err)
	assert.Equal(t, s.State(), restored.State())

	_, err = sheet.Restore(sheet.State{ID: kernel.NewUUID(), Code: "CS-1", HubID: "H", DestinationID: "D", DestinationType: sheet.DC})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestParseDestinationType(t *testing.T) {
	for _, name := range []string{"LMDC", "DC", "MMDC", "RTO"} {
		dt, err := sheet.ParseDestinationType(name)
		require.NoError(t, err)
		assert.Equal(t, name, dt.String())
	}

	_, err := sheet.ParseDestinationType("HUB")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
