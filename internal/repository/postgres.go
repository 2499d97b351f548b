package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/url"

	"github.com/UnknownOlympus/pumps/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loadPumpsQuery = `
		SELECT latitude, longitude, attributes
		FROM public.pumps
		ORDER BY pump_id ASC;
	`

// PostgresSource reads the dataset from the pumps table.
type PostgresSource struct {
	db  Database
	log *slog.Logger
}

// NewPostgresSource creates a PostgresSource over the provided Database.
func NewPostgresSource(db Database, log *slog.Logger) *PostgresSource {
	return &PostgresSource{db: db, log: log}
}

// NewDatabase opens a pgx connection pool and verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(host, port),
		Path:   name,
	}

	pool, err := pgxpool.New(ctx, dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// LoadPumps retrieves every pump ordered by pump_id.
//
// The attributes column is a nullable JSONB object whose keys become the pump metadata.
// The latitude and longitude columns always win over lat/lon keys inside attributes.
func (ps *PostgresSource) LoadPumps(ctx context.Context) ([]models.Pump, error) {
	rows, err := ps.db.Query(ctx, loadPumpsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query pumps: %w", err)
	}
	defer rows.Close()

	pumps := []models.Pump{}
	for rows.Next() {
		var (
			pump  models.Pump
			attrs []byte
		)
		if errScan := rows.Scan(&pump.Latitude, &pump.Longitude, &attrs); errScan != nil {
			return nil, fmt.Errorf("failed to scan pump: %w", errScan)
		}

		pump.Attributes = map[string]json.RawMessage{}
		if len(attrs) > 0 {
			if errDecode := json.Unmarshal(attrs, &pump.Attributes); errDecode != nil {
				return nil, fmt.Errorf("failed to decode attributes of pump #%d: %w", len(pumps)+1, errDecode)
			}
			delete(pump.Attributes, "lat")
			delete(pump.Attributes, "lon")
		}

		pumps = append(pumps, pump)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	ps.log.InfoContext(ctx, "Pump dataset loaded from database", "count", len(pumps))

	return pumps, nil
}
