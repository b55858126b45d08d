package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegisterDefaults(t *testing.T) {
	reg, err := LoadRegister("")
	require.NoError(t, err)

	assert.Equal(t, []string{"Camera 1", "Camera 2", "Appartamento"}, reg.DefaultRooms)
	assert.Equal(t, 20, reg.Feed.FetchTimeoutSeconds)
	assert.Empty(t, reg.Feed.SyncCron)
}

func TestLoadRegisterFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "register.yaml")
	data := []byte("default_rooms:\n  - Maestrale\n  - Libeccio\nfeed:\n  fetch_timeout_seconds: 5\n  sync_cron: \"0 */6 * * *\"\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	reg, err := LoadRegister(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Maestrale", "Libeccio"}, reg.DefaultRooms)
	assert.Equal(t, 5, reg.Feed.FetchTimeoutSeconds)
	assert.Equal(t, "0 */6 * * *", reg.Feed.SyncCron)
}

func TestLoadRegisterPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "register.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feed:\n  sync_cron: \"@hourly\"\n"), 0o600))

	reg, err := LoadRegister(path)
	require.NoError(t, err)

	// Unset fields keep their defaults.
	assert.Equal(t, []string{"Camera 1", "Camera 2", "Appartamento"}, reg.DefaultRooms)
	assert.Equal(t, 20, reg.Feed.FetchTimeoutSeconds)
	assert.Equal(t, "@hourly", reg.Feed.SyncCron)
}

func TestLoadRegisterMissingFile(t *testing.T) {
	_, err := LoadRegister(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRequiresDBDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN")
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/register")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REGISTER_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "postgres://localhost:5432/register", cfg.DBDSN)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 20, cfg.Register.Feed.FetchTimeoutSeconds)
}

func TestFetchTimeout(t *testing.T) {
	f := FeedSettings{FetchTimeoutSeconds: 15}
	assert.Equal(t, 15*time.Second, f.FetchTimeout())
}
