package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("API_KEYS", " key-1 , key-2")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("FALLBACK_LAT", "-8.1")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, []string{"key-1", "key-2"}, cfg.APIKeys)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout) // некорректное значение -> значение по умолчанию
	assert.Equal(t, -8.1, cfg.FallbackLat)
	assert.Equal(t, -34.877, cfg.FallbackLng)
	assert.Equal(t, 80, cfg.MapClusterRadius)
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{}
	assert.ErrorContains(t, cfg.ValidateServer(), "DATABASE_URL")

	cfg.DatabaseURL = "postgres://localhost/sisocc"
	assert.ErrorContains(t, cfg.ValidateServer(), "JWT_SECRET")

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.ValidateServer())
}

func TestValidateDashboard(t *testing.T) {
	cfg := &Config{BackendURL: "http://localhost:3001/api", RequestTimeout: time.Second}
	assert.ErrorContains(t, cfg.ValidateDashboard(), "REFRESH_INTERVAL")

	cfg.RefreshInterval = time.Minute
	assert.NoError(t, cfg.ValidateDashboard())
}
