package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ShipmentCacheTTL)
	assert.Equal(t, 4, cfg.Custody.SealMinLength)
	assert.Equal(t, []string{"HUB_MANAGER", "ADMIN"}, cfg.Custody.SealOverrideRoles)
	assert.Equal(t, "0 0 * * * *", cfg.Jobs.DigestSchedule)
	assert.Equal(t, 12*time.Hour, cfg.Jobs.StaleTripAfter)
}

func TestLoadConfig_EnvVars(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("SHIPMENT_CACHE_TTL", "30s")
	t.Setenv("SEAL_MIN_LENGTH", "6")
	t.Setenv("SEAL_OVERRIDE_ROLES", "ADMIN, SECURITY_LEAD,")
	t.Setenv("STALE_TRIP_AFTER", "36h")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, 30*time.Second, cfg.Redis.ShipmentCacheTTL)
	assert.Equal(t, 6, cfg.Custody.SealMinLength)
	assert.Equal(t, []string{"ADMIN", "SECURITY_LEAD"}, cfg.Custody.SealOverrideRoles)
	assert.Equal(t, 36*time.Hour, cfg.Jobs.StaleTripAfter)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := []byte("DB_HOST=db.internal\nDB_NAME=custody_test\nLOG_LEVEL=debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), content, 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("DB_HOST")
		_ = os.Unsetenv("DB_NAME")
		_ = os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "custody_test", cfg.Database.Name)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal port=5432")
}

func TestLoadConfig_RejectsUnknownStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := LoadConfig(t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}
