package geocoding

import (
	"context"

	"github.com/UnknownOlympus/pumps/internal/models"
)

// Provider resolves a free-text address into coordinates.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}
