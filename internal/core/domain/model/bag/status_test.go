package bag

import (
	"errors"
	"fmt"
	"testing"

	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []Status {
	return []Status{
		Created, Opened, Sealed, Dispatched, InTransit,
		InboundReceived, Received, Connected, ShortageMarked, DamageMarked,
	}
}

func TestStatus_StringAndParse(t *testing.T) {
	for _, s := range allStatuses() {
		t.Run(s.String(), func(t *testing.T) {
			parsed, err := ParseStatus(s.String())

			require.NoError(t, err)
			assert.Equal(t, s, parsed)
			require.NoError(t, s.Validate())
		})
	}

	t.Run("should reject unknown names", func(t *testing.T) {
		_, err := ParseStatus("LOST")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject Unknown and out of range values", func(t *testing.T) {
		assert.Error(t, Unknown.Validate())
		assert.Error(t, Status(99).Validate())
		assert.Equal(t, "UNKNOWN", Status(99).String())
	})
}

func TestStatus_Predicates(t *testing.T) {
	open := map[Status]bool{Created: true, Opened: true}
	terminal := map[Status]bool{ShortageMarked: true, DamageMarked: true}

	for _, s := range allStatuses() {
		t.Run(s.String(), func(t *testing.T) {
			assert.Equal(t, open[s], s.IsOpen())
			assert.Equal(t, terminal[s], s.IsTerminal())
			assert.Equal(t, terminal[s] || s == InboundReceived, s.IsResolvedForInbound())
		})
	}
}

func TestTransitions_CoverEveryOperation(t *testing.T) {
	ops := []operation{
		opScan, opSeal, opConnect, opDispatch, opDispatchConnected, opDepart,
		opVerifyInbound, opReceive, opMarkShortage, opMarkDamage,
	}

	for _, op := range ops {
		t.Run(op.String(), func(t *testing.T) {
			tr, ok := transitions[op]

			require.True(t, ok, "operation must have a transition entry")
			assert.NotEmpty(t, tr.from)
			require.NoError(t, tr.to.Validate())
		})
	}
}

func TestTransitions_TerminalStatusesNeverMove(t *testing.T) {
	for op := range transitions {
		for _, s := range []Status{ShortageMarked, DamageMarked} {
			t.Run(fmt.Sprintf("%s from %s", op, s), func(t *testing.T) {
				next, err := s.apply(op)

				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidState))
				assert.True(t, errors.Is(err, errs.ErrStateConflict))
				assert.Equal(t, s, next)
			})
		}
	}
}

func TestStatus_Apply(t *testing.T) {
	tests := []struct {
		from Status
		op   operation
		want Status
	}{
		{Created, opScan, Opened},
		{Opened, opScan, Opened},
		{Opened, opSeal, Sealed},
		{Created, opSeal, Sealed},
		{Sealed, opDispatch, Dispatched},
		{Dispatched, opDepart, InTransit},
		{InTransit, opVerifyInbound, InboundReceived},
		{InboundReceived, opConnect, Connected},
		{Connected, opDispatchConnected, Dispatched},
		{InTransit, opReceive, Received},
		{Received, opDispatch, Dispatched},
		{Dispatched, opMarkDamage, DamageMarked},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.op, tt.from), func(t *testing.T) {
			got, err := tt.from.apply(tt.op)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("should reject sealing a sealed bag", func(t *testing.T) {
		_, err := Sealed.apply(opSeal)

		require.ErrorIs(t, err, ErrInvalidState)
		assert.Contains(t, err.Error(), "cannot seal bag in status SEALED")
	})

	t.Run("should keep plain dispatch away from connected bags", func(t *testing.T) {
		_, err := Connected.apply(opDispatch)

		require.ErrorIs(t, err, ErrInvalidState)
	})
}
