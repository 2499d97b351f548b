package handler

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/UnknownOlympus/pumps/internal/models"
)

// Request validation errors.
var (
	ErrMissingCoordinate = errors.New("query parameters lat and lon are required")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrGeocodingDisabled = errors.New("address lookups are not enabled")
	ErrGeocodingFailed   = errors.New("failed to resolve address")
)

// parseCoordinates returns nil when lat or lon is absent, so that supplying only one of them
// yields an unranked listing. A supplied value that is not a valid coordinate is an error.
func parseCoordinates(latStr, lonStr string) (*models.Coordinates, error) {
	lat, latOK, err := parseDegrees("lat", latStr)
	if err != nil {
		return nil, err
	}
	lon, lonOK, err := parseDegrees("lon", lonStr)
	if err != nil {
		return nil, err
	}
	if !latOK || !lonOK {
		return nil, nil
	}

	at := models.Coordinates{Latitude: lat, Longitude: lon}
	if err = validate(at); err != nil {
		return nil, err
	}

	return &at, nil
}

func parseDegrees(name, value string) (float64, bool, error) {
	if value == "" {
		return 0, false, nil
	}

	deg, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0, false, fmt.Errorf("%w: %s must be a finite number, got %q", ErrInvalidCoordinate, name, value)
	}

	return deg, true, nil
}

func validate(at models.Coordinates) error {
	if math.IsNaN(at.Latitude) || at.Latitude < -90 || at.Latitude > 90 {
		return fmt.Errorf("%w: lat must be within [-90, 90], got %v", ErrInvalidCoordinate, at.Latitude)
	}
	if math.IsNaN(at.Longitude) || at.Longitude < -180 || at.Longitude > 180 {
		return fmt.Errorf("%w: lon must be within [-180, 180], got %v", ErrInvalidCoordinate, at.Longitude)
	}

	return nil
}
