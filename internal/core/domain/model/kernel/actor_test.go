package kernel_test

import (
	"testing"

	"custody/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActor(t *testing.T) {
	t.Run("trims and keeps identity fields", func(t *testing.T) {
		actor, err := kernel.NewActor(" op-1 ", " HUB_MANAGER ", " H2 ")

		require.NoError(t, err)
		require.NoError(t, actor.Validate())
		assert.Equal(t, "op-1", actor.ID())
		assert.Equal(t, "HUB_MANAGER", actor.Role())
		assert.Equal(t, "H2", actor.LinkedEntityID())
	})

	t.Run("id is required", func(t *testing.T) {
		_, err := kernel.NewActor("  ", "OPERATOR", "H1")

		require.ErrorIs(t, err, kernel.ErrActorIDIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var actor kernel.Actor

		require.ErrorIs(t, actor.Validate(), kernel.ErrActorIsNotConstructed)
	})
}

func TestActor_HasRole(t *testing.T) {
	actor, err := kernel.NewActor("op-1", "hub_manager", "H1")
	require.NoError(t, err)

	assert.True(t, actor.HasRole("ADMIN", "HUB_MANAGER"))
	assert.False(t, actor.HasRole("ADMIN"))

	noRole, err := kernel.NewActor("op-2", "", "H1")
	require.NoError(t, err)
	assert.False(t, noRole.HasRole(""))
}

func TestNewCode(t *testing.T) {
	t.Run("includes prefix and entity", func(t *testing.T) {
		code := kernel.NewCode(kernel.BagCodePrefix, "hub 1")

		assert.Regexp(t, `^BAG-HUB1-[0-9A-F]{10}$`, code)
	})

	t.Run("omits empty entity", func(t *testing.T) {
		code := kernel.NewCode(kernel.TripCodePrefix, "")

		assert.Regexp(t, `^TRP-[0-9A-F]{10}$`, code)
	})

	t.Run("codes are unique", func(t *testing.T) {
		assert.NotEqual(t, kernel.NewCode(kernel.SheetCodePrefix, "H1"), kernel.NewCode(kernel.SheetCodePrefix, "H1"))
	})
}

func TestNormalizeCode(t *testing.T) {
	code, err := kernel.NormalizeCode("  bag-h1-abc ")
	require.NoError(t, err)
	assert.Equal(t, "BAG-H1-ABC", code)

	_, err = kernel.NormalizeCode("   ")
	require.ErrorIs(t, err, kernel.ErrCodeIsRequired)
}
