package service

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/UnknownOlympus/pumps/internal/geo"
	"github.com/UnknownOlympus/pumps/internal/metrics"
	"github.com/UnknownOlympus/pumps/internal/models"
)

// Operation labels used for query metrics.
const (
	opNearest = "nearest"
	opList    = "list"
	opRanked  = "list_ranked"
)

// PumpService answers distance queries over a dataset loaded once at startup.
// The dataset is never modified after construction, so a PumpService is safe for concurrent use.
type PumpService struct {
	log     *slog.Logger     // Logger for query tracing
	pumps   []models.Pump    // Loaded dataset in its original order
	metrics *metrics.Metrics // Metrics for query counts and latency
}

// NewPumpService creates a PumpService over a private copy of pumps.
func NewPumpService(log *slog.Logger, pumps []models.Pump, metrics *metrics.Metrics) *PumpService {
	metrics.PumpsLoaded.Set(float64(len(pumps)))

	return &PumpService{
		log:     log,
		pumps:   slices.Clone(pumps),
		metrics: metrics,
	}
}

// Len returns the number of loaded pumps.
func (ps *PumpService) Len() int {
	return len(ps.pumps)
}

// FindNearest returns the pump closest to at, with its distance rounded to one decimal.
// When several pumps are equally close the one loaded first wins.
// It reports false when the dataset is empty.
func (ps *PumpService) FindNearest(ctx context.Context, at models.Coordinates) (models.RankedPump, bool) {
	defer ps.observe(opNearest, time.Now())

	nearest := -1
	minDist := 0.0
	for idx, pump := range ps.pumps {
		dist := geo.Distance(at.Latitude, at.Longitude, pump.Latitude, pump.Longitude)
		if nearest < 0 || dist < minDist {
			nearest = idx
			minDist = dist
		}
	}

	if nearest < 0 {
		ps.log.DebugContext(ctx, "No pumps loaded, nearest pump is absent", "lat", at.Latitude, "lon", at.Longitude)
		return models.RankedPump{}, false
	}

	rounded := geo.Round(minDist)
	if ps.log.Enabled(ctx, slog.LevelDebug) {
		var name string
		if _, err := ps.pumps[nearest].Attribute("name", &name); err != nil {
			name = ""
		}
		ps.log.DebugContext(ctx, "Nearest pump found", "lat", at.Latitude, "lon", at.Longitude,
			"index", nearest, "name", name, "distance", rounded)
	}

	return models.RankedPump{Pump: ps.pumps[nearest], Distance: &rounded}, true
}

// ListRanked returns every loaded pump.
//
// Without a query point the pumps keep their load order and carry no distance.
// With one, each pump carries its rounded distance and the list is sorted by the exact distance,
// ascending; equally distant pumps keep their load order.
func (ps *PumpService) ListRanked(ctx context.Context, at *models.Coordinates) []models.RankedPump {
	if at == nil {
		defer ps.observe(opList, time.Now())

		ranked := make([]models.RankedPump, len(ps.pumps))
		for idx, pump := range ps.pumps {
			ranked[idx] = models.RankedPump{Pump: pump}
		}
		ps.log.DebugContext(ctx, "Listed pumps", "count", len(ranked))

		return ranked
	}

	defer ps.observe(opRanked, time.Now())

	type scored struct {
		pump models.Pump
		dist float64
	}
	scoredPumps := make([]scored, len(ps.pumps))
	for idx, pump := range ps.pumps {
		scoredPumps[idx] = scored{
			pump: pump,
			dist: geo.Distance(at.Latitude, at.Longitude, pump.Latitude, pump.Longitude),
		}
	}
	slices.SortStableFunc(scoredPumps, func(a, b scored) int {
		return cmp.Compare(a.dist, b.dist)
	})

	ranked := make([]models.RankedPump, len(scoredPumps))
	for idx, sp := range scoredPumps {
		rounded := geo.Round(sp.dist)
		ranked[idx] = models.RankedPump{Pump: sp.pump, Distance: &rounded}
	}
	ps.log.DebugContext(ctx, "Ranked pumps by distance", "lat", at.Latitude, "lon", at.Longitude,
		"count", len(ranked))

	return ranked
}

func (ps *PumpService) observe(operation string, start time.Time) {
	ps.metrics.QueriesTotal.WithLabelValues(operation).Inc()
	ps.metrics.QuerySeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
