package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/UnknownOlympus/pumps/internal/config"
	"github.com/UnknownOlympus/pumps/internal/metrics"
	"github.com/UnknownOlympus/pumps/internal/repository"
	"github.com/UnknownOlympus/pumps/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPumps(t *testing.T) {
	t.Parallel()
	logger := slog.Default()

	t.Run("sample dataset from file", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{Source: repository.SourceFile, DataPath: filepath.Join("..", "data", "pumps.json")}

		pumps, err := loadPumps(t.Context(), cfg, logger)

		require.NoError(t, err)
		assert.Len(t, pumps, 5)
	})

	t.Run("unsupported source", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{Source: "ftp"}

		pumps, err := loadPumps(t.Context(), cfg, logger)

		require.ErrorIs(t, err, repository.ErrUnsupportedSource)
		assert.Nil(t, pumps)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{Source: repository.SourceFile, DataPath: filepath.Join(t.TempDir(), "none.json")}

		_, err := loadPumps(t.Context(), cfg, logger)

		require.ErrorContains(t, err, "failed to load pumps")
	})
}

func TestMonitoringMux(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	pumps := service.NewPumpService(slog.Default(), nil, metrics.NewMetrics(reg))
	mux := monitoringMux(t.Context(), slog.Default(), reg, pumps)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pumps_loaded 0")
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	assert.True(t, setupLogger(envLocal).Enabled(ctx, slog.LevelDebug))
	assert.True(t, setupLogger(envDev).Enabled(ctx, slog.LevelInfo))
	assert.False(t, setupLogger(envDev).Enabled(ctx, slog.LevelDebug))
	assert.False(t, setupLogger(envProd).Enabled(ctx, slog.LevelInfo))
	assert.True(t, setupLogger(envProd).Enabled(ctx, slog.LevelWarn))
	assert.False(t, setupLogger("unknown").Enabled(ctx, slog.LevelWarn))
}
