package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/UnknownOlympus/pumps/internal/geocoding"
	"github.com/UnknownOlympus/pumps/internal/metrics"
	"github.com/UnknownOlympus/pumps/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// PumpQuerier is the query side of the pump service used by the HTTP handlers.
type PumpQuerier interface {
	FindNearest(ctx context.Context, at models.Coordinates) (models.RankedPump, bool)
	ListRanked(ctx context.Context, at *models.Coordinates) []models.RankedPump
}

// Handler serves the public pump API.
type Handler struct {
	log          *slog.Logger
	pumps        PumpQuerier
	geocoder     geocoding.Provider // nil when address lookups are disabled
	providerName string             // geocoder name for metrics labeling
	metrics      *metrics.Metrics
}

// NewHandler creates a Handler. geocoder may be nil.
func NewHandler(
	log *slog.Logger,
	pumps PumpQuerier,
	geocoder geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
) *Handler {
	return &Handler{
		log:          log,
		pumps:        pumps,
		geocoder:     geocoder,
		providerName: providerName,
		metrics:      metrics,
	}
}

// Router builds the gin engine with every public route and a permissive CORS policy.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:    []string{"*"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/nearest", h.Nearest)
	router.GET("/pumps", h.ListPumps)

	return router
}

type nearestResponse struct {
	Pump     *models.Pump `json:"pump"`
	Distance *float64     `json:"distance"`
}

type pumpsResponse struct {
	Pumps []models.RankedPump `json:"pumps"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Nearest handles GET /nearest. The query point is required.
func (h *Handler) Nearest(c *gin.Context) {
	ctx := c.Request.Context()

	at, err := h.queryPoint(c)
	if err == nil && at == nil {
		err = ErrMissingCoordinate
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	nearest, ok := h.pumps.FindNearest(ctx, *at)
	if !ok {
		c.JSON(http.StatusOK, nearestResponse{})
		return
	}

	c.JSON(http.StatusOK, nearestResponse{Pump: &nearest.Pump, Distance: nearest.Distance})
}

// ListPumps handles GET /pumps. Pumps are ranked only when a query point is given.
func (h *Handler) ListPumps(c *gin.Context) {
	at, err := h.queryPoint(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, pumpsResponse{Pumps: h.pumps.ListRanked(c.Request.Context(), at)})
}

// queryPoint resolves the optional query point from lat/lon or, failing that, from address.
func (h *Handler) queryPoint(c *gin.Context) (*models.Coordinates, error) {
	at, err := parseCoordinates(c.Query("lat"), c.Query("lon"))
	if err != nil || at != nil {
		return at, err
	}

	address, ok := c.GetQuery("address")
	if !ok {
		return nil, nil
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrMissingCoordinate
	}

	return h.geocode(c.Request.Context(), address)
}

func (h *Handler) geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	if h.geocoder == nil {
		return nil, ErrGeocodingDisabled
	}

	startTime := time.Now()
	coords, err := h.geocoder.Geocode(ctx, address)
	h.metrics.GeocodeSeconds.WithLabelValues(h.providerName).Observe(time.Since(startTime).Seconds())
	if err != nil {
		h.metrics.GeocodeRequests.WithLabelValues(h.providerName, "failure").Inc()
		h.log.WarnContext(ctx, "Failed to geocode address", "address", address, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrGeocodingFailed, err)
	}
	h.metrics.GeocodeRequests.WithLabelValues(h.providerName, "success").Inc()

	if err = validate(*coords); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeocodingFailed, err)
	}

	return coords, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, ErrGeocodingFailed) {
		status = http.StatusBadGateway
	}

	h.log.DebugContext(c.Request.Context(), "Rejected request", "path", c.FullPath(), "status", status, "error", err)
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.InfoContext(c.Request.Context(), "HTTP request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
