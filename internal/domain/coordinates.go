package domain

import "math"

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Valid reports whether both components are real numbers. NaN coordinates
// can reach the planner through partially geocoded plans and must be
// filtered before any distance math.
func (c Coordinates) Valid() bool {
	return !math.IsNaN(c.Lat) && !math.IsNaN(c.Lng)
}
