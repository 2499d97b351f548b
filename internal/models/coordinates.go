package models

// Coordinates represents a geographical point defined by its latitude and longitude in degrees.
type Coordinates struct {
	Latitude  float64 // Latitude of the point, -90..90.
	Longitude float64 // Longitude of the point, -180..180.
}
