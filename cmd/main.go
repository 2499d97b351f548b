package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/pumps/internal/config"
	"github.com/UnknownOlympus/pumps/internal/geocoding"
	"github.com/UnknownOlympus/pumps/internal/handler"
	"github.com/UnknownOlympus/pumps/internal/metrics"
	"github.com/UnknownOlympus/pumps/internal/models"
	"github.com/UnknownOlympus/pumps/internal/repository"
	"github.com/UnknownOlympus/pumps/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Canceled on SIGINT/SIGTERM to trigger graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	if err := run(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "Application failed", "error", err)
		stop()
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// run loads the dataset, serves the API and the monitoring endpoints, and blocks until ctx is canceled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	pumps, err := loadPumps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	pumpService := service.NewPumpService(logger, pumps, appMetrics)

	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Geocoder.Type),
		APIKey:    cfg.Geocoder.APIKey,
		RateLimit: cfg.Geocoder.RateLimit,
		Region:    cfg.Geocoder.Region,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create geocoding provider: %w", err)
	}
	if geoProvider != nil {
		logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Geocoder.Type)
	}

	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	api := handler.NewHandler(logger, pumpService, geoProvider, cfg.Geocoder.Type, appMetrics)

	errCh := make(chan error, 2)
	servers := []*http.Server{
		newServer(cfg.HTTPPort, api.Router()),
		newServer(cfg.HealthPort, monitoringMux(ctx, logger, reg, pumpService)),
	}
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.InfoContext(ctx, "Starting HTTP server", "addr", srv.Addr)
			if errServe := srv.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server %s failed: %w", srv.Addr, errServe)
			}
		}(srv)
	}

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "pumps", pumpService.Len())

	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			logger.ErrorContext(shutdownCtx, "Failed to shut down server", "addr", srv.Addr, "error", errShutdown)
		}
	}

	return err
}

// loadPumps reads the dataset once from the configured source.
func loadPumps(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]models.Pump, error) {
	sourceCfg := repository.SourceConfig{
		Type:     cfg.Source,
		DataPath: cfg.DataPath,
		Logger:   logger,
	}

	if cfg.Source == repository.SourcePostgres {
		dtb, err := repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		// the dataset is read once, the pool is not needed afterwards
		defer dtb.Close()
		sourceCfg.DB = dtb
	}

	source, err := repository.NewSource(sourceCfg)
	if err != nil {
		return nil, err
	}

	pumps, err := source.LoadPumps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pumps: %w", err)
	}
	if len(pumps) == 0 {
		logger.WarnContext(ctx, "Pump dataset is empty, nearest queries will return no pump", "source", cfg.Source)
	}

	return pumps, nil
}

func newServer(port int, h http.Handler) *http.Server {
	readTimeout := 5
	writeTimeout := 10

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      h,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
}

// monitoringMux serves the health check and metrics endpoints.
//
// Parameters:
// - ctx: A context.Context for logging.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - pumps: The loaded pump service, reported in the health check.
func monitoringMux(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	pumps *service.PumpService,
) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...", "pumps", pumps.Len())
		writer.WriteHeader(http.StatusOK)
		if _, err := writer.Write([]byte("OK")); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return mux
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
