package config_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/pumps/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("PUMPS_ENV", "local")
	t.Setenv("PUMPS_HTTP_PORT", "9000")
	t.Setenv("PUMPS_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("PUMPS_SOURCE", "postgres")
	t.Setenv("PUMPS_DATA_PATH", "/srv/pumps.json")
	t.Setenv("PUMPS_GEOCODER_TYPE", "google")
	t.Setenv("PUMPS_GEOCODER_KEY", "testAPIKey")
	t.Setenv("PUMPS_GEOCODER_RATE", "20")
	t.Setenv("PUMPS_GEOCODER_REGION", "de")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, 8080, cfg.HealthPort)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.Source)
	assert.Equal(t, "/srv/pumps.json", cfg.DataPath)
	assert.Equal(t, "google", cfg.Geocoder.Type)
	assert.Equal(t, "testAPIKey", cfg.Geocoder.APIKey)
	assert.Equal(t, 20, cfg.Geocoder.RateLimit)
	assert.Equal(t, "de", cfg.Geocoder.Region)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
}

func Test_MustLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PUMPS_ENV", "PUMPS_HTTP_PORT", "PUMPS_HEALTH_PORT", "PUMPS_SHUTDOWN_TIMEOUT", "PUMPS_SOURCE",
		"PUMPS_DATA_PATH", "PUMPS_GEOCODER_TYPE", "PUMPS_GEOCODER_RATE", "DB_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, 8080, cfg.HealthPort)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "file", cfg.Source)
	assert.Equal(t, "data/pumps.json", cfg.DataPath)
	assert.Empty(t, cfg.Geocoder.Type)
	assert.Equal(t, 1, cfg.Geocoder.RateLimit)
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestMustLoad_HTTPPortError(t *testing.T) {
	t.Setenv("PUMPS_HTTP_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for API server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_HealthPortError(t *testing.T) {
	t.Setenv("PUMPS_HEALTH_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for monitoring server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_ShutdownTimeoutError(t *testing.T) {
	t.Setenv("PUMPS_SHUTDOWN_TIMEOUT", "error_value")

	assert.PanicsWithValue(t, "failed to parse shutdown timeout from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_GeocoderRateError(t *testing.T) {
	t.Setenv("PUMPS_GEOCODER_RATE", "error_value")

	assert.PanicsWithValue(t, "failed to parse geocoder rate from configuration, must be an integer types", func() {
		config.MustLoad()
	})
}
