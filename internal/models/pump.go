package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// JSON keys that carry the location of a pump. Every other key is opaque metadata.
const (
	latKey      = "lat"
	lonKey      = "lon"
	distanceKey = "distance"
)

// ErrMissingCoordinate is returned when a pump record has no numeric lat or lon field.
var ErrMissingCoordinate = errors.New("pump record has no numeric coordinate")

// Pump is a single point of interest from the loaded dataset.
//
// Only the location is interpreted. The remaining fields of the source record (name, description, ...)
// are kept as raw JSON in Attributes and written back unchanged.
type Pump struct {
	Latitude   float64
	Longitude  float64
	Attributes map[string]json.RawMessage
}

// Location returns the coordinates of the pump.
func (p Pump) Location() Coordinates {
	return Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
}

// Attribute decodes the metadata field key into dst. It reports false when the field is absent.
func (p Pump) Attribute(key string, dst any) (bool, error) {
	raw, ok := p.Attributes[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("failed to decode attribute %q: %w", key, err)
	}

	return true, nil
}

// MarshalJSON writes the pump as a flat object: lat, lon and every attribute.
func (p Pump) MarshalJSON() ([]byte, error) {
	fields, err := p.fields(0)
	if err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}

// UnmarshalJSON reads a flat object with numeric lat and lon. Other keys are stored verbatim.
func (p *Pump) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode pump record: %w", err)
	}

	lat, err := coordinate(raw, latKey)
	if err != nil {
		return err
	}
	lon, err := coordinate(raw, lonKey)
	if err != nil {
		return err
	}
	delete(raw, latKey)
	delete(raw, lonKey)

	p.Latitude = lat
	p.Longitude = lon
	p.Attributes = raw

	return nil
}

// fields builds the flat JSON object of the pump, reserving room for extra keys.
func (p Pump) fields(extra int) (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage, len(p.Attributes)+2+extra)
	for key, value := range p.Attributes {
		fields[key] = value
	}

	lat, err := json.Marshal(p.Latitude)
	if err != nil {
		return nil, fmt.Errorf("failed to encode latitude: %w", err)
	}
	lon, err := json.Marshal(p.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to encode longitude: %w", err)
	}
	fields[latKey] = lat
	fields[lonKey] = lon

	return fields, nil
}

func coordinate(raw map[string]json.RawMessage, key string) (float64, error) {
	value, ok := raw[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s is missing", ErrMissingCoordinate, key)
	}

	var deg float64
	if err := json.Unmarshal(value, &deg); err != nil {
		return 0, fmt.Errorf("%w: %s is %s", ErrMissingCoordinate, key, string(value))
	}

	return deg, nil
}

// RankedPump is a pump together with its distance from the query point.
// Distance is nil when the listing was not ranked.
type RankedPump struct {
	Pump
	Distance *float64 // Meters, rounded to one decimal.
}

// MarshalJSON writes the pump fields and adds distance when it is known.
func (r RankedPump) MarshalJSON() ([]byte, error) {
	if r.Distance == nil {
		return r.Pump.MarshalJSON()
	}

	fields, err := r.fields(1)
	if err != nil {
		return nil, err
	}
	dist, err := json.Marshal(*r.Distance)
	if err != nil {
		return nil, fmt.Errorf("failed to encode distance: %w", err)
	}
	fields[distanceKey] = dist

	return json.Marshal(fields)
}
