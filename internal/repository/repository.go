package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/pumps/internal/models"
	"github.com/jackc/pgx/v5"
)

// Source types accepted by NewSource.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// ErrUnsupportedSource is returned by NewSource for an unknown source type.
var ErrUnsupportedSource = errors.New("unsupported pump source")

// Source loads the pump dataset. It is called once at startup; the order of the returned
// slice is the load order used for tie-breaking.
type Source interface {
	LoadPumps(ctx context.Context) ([]models.Pump, error)
}

// Database is the subset of a pgx connection pool used by PostgresSource.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SourceConfig selects and configures a pump source.
type SourceConfig struct {
	Type     string       // SourceFile or SourcePostgres
	DataPath string       // Path of the JSON dataset (file source)
	DB       Database     // Connection pool (postgres source)
	Logger   *slog.Logger // Logger for load progress
}

// NewSource creates the pump source described by cfg.
func NewSource(cfg SourceConfig) (Source, error) {
	switch cfg.Type {
	case SourceFile:
		return NewFileSource(cfg.DataPath, cfg.Logger), nil
	case SourcePostgres:
		if cfg.DB == nil {
			return nil, errors.New("database connection is required for postgres source")
		}
		return NewPostgresSource(cfg.DB, cfg.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, cfg.Type)
	}
}
