package guard_test

import (
	"errors"
	"testing"

	"custody/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// When
		err := g.Validate(errors.New("not constructed"))

		// Then
		require.NoError(t, err)
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expected := errors.New("seal command not constructed")

		// When
		err := g.Validate(expected)

		// Then
		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errSealNotConstructed := errors.New("SealCommand must be created via NewSealCommand")

	type SealCommand struct {
		sealNumber string
		guard      guard.ConstructorGuard
	}

	newSealCommand := func(sealNumber string) (SealCommand, error) {
		if sealNumber == "" {
			return SealCommand{}, errors.New("seal number is required")
		}
		return SealCommand{sealNumber: sealNumber, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructor_builds_valid_command", func(t *testing.T) {
		cmd, err := newSealCommand("SEAL-100")

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errSealNotConstructed))
		assert.Equal(t, "SEAL-100", cmd.sealNumber)
	})

	t.Run("zero_value_command_fails", func(t *testing.T) {
		var cmd SealCommand

		assert.Equal(t, errSealNotConstructed, cmd.guard.Validate(errSealNotConstructed))
	})
}
