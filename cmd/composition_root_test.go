package cmd

import (
	"testing"
	"time"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() Config {
	return Config{
		StoreDriver: StoreDriverMemory,
		Redis:       RedisConfig{ShipmentCacheTTL: time.Minute},
		Custody: CustodyConfig{
			SealMinLength:     6,
			SealOverrideRoles: []string{"SECURITY_LEAD"},
		},
		Jobs: JobsConfig{DigestSchedule: "@every 1h", StaleTripAfter: time.Hour},
	}
}

func TestCompositionRoot_MemoryStoreWithCache(t *testing.T) {
	// Given
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.Redis.URL = "redis://" + mr.Addr()

	root, err := NewCompositionRoot(t.Context(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })

	h := root.Handlers()
	operator, err := kernel.NewActor("op-1", "HUB_OPERATOR", "H1")
	require.NoError(t, err)

	createCmd, err := commands.NewCreateBagCommand(operator, "H1", bag.Outbound, "H2")
	require.NoError(t, err)
	b, err := h.CreateBag.Handle(t.Context(), createCmd)
	require.NoError(t, err)

	t.Run("should resolve shipments announced through the feed", func(t *testing.T) {
		require.NoError(t, h.Shipments.Upsert(t.Context(), ports.Shipment{AWB: "AWB1", Status: "BOOKED"}))

		scanCmd, err := commands.NewScanShipmentCommand(operator, b.ID(), "AWB1")
		require.NoError(t, err)
		got, err := h.ScanShipment.Handle(t.Context(), scanCmd)

		require.NoError(t, err)
		assert.Equal(t, 1, got.ManifestCount())
		assert.True(t, mr.Exists("custody:shipment:AWB1"))
	})

	t.Run("should apply the configured seal length", func(t *testing.T) {
		short, err := commands.NewSealBagCommand(operator, b.ID(), "S-1")
		require.NoError(t, err)
		_, err = h.SealBag.Handle(t.Context(), short)
		require.Error(t, err)

		long, err := commands.NewSealBagCommand(operator, b.ID(), "SEAL-100")
		require.NoError(t, err)
		sealed, err := h.SealBag.Handle(t.Context(), long)
		require.NoError(t, err)
		assert.Equal(t, bag.Sealed, sealed.Status())
	})

	t.Run("should start and stop the jobs", func(t *testing.T) {
		jm := root.JobManager()

		require.NoError(t, jm.StartAll())
		jm.StopAll()
	})
}

func TestCompositionRoot_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreDriver = "sqlite"

	_, err := NewCompositionRoot(t.Context(), cfg, zap.NewNop())

	require.Error(t, err)
}

func TestCompositionRoot_UnreachableRedisIsNotFatal(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.Redis.URL = "redis://" + mr.Addr()
	mr.Close()

	root, err := NewCompositionRoot(t.Context(), cfg, zap.NewNop())

	require.NoError(t, err)
	assert.NoError(t, root.Close())
}
