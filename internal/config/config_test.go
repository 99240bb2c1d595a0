package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, "pauline-store", cfg.StorageKey)
	assert.Equal(t, 250*time.Millisecond, cfg.PersistDebounce())
	assert.Equal(t, "FCFA", cfg.Currency)
	assert.Equal(t, "Africa/Douala", cfg.Location().String())
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestValidate(t *testing.T) {
	base := Config{StorageBackend: BackendFile, Timezone: "UTC", Env: "development"}
	require.NoError(t, base.Validate())

	bad := base
	bad.StorageBackend = "mongo"
	assert.ErrorContains(t, bad.Validate(), "STORAGE_BACKEND")

	prod := base
	prod.Env = "production"
	prod.JWTSecret = "short"
	assert.ErrorContains(t, prod.Validate(), "JWT_SECRET")
	prod.JWTSecret = DevJWTSecret
	assert.ErrorContains(t, prod.Validate(), "must be set")

	tz := base
	tz.Timezone = "Mars/Olympus"
	assert.ErrorContains(t, tz.Validate(), "TIMEZONE")
}
