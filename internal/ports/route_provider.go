package ports

import (
	"context"

	"trip-itinerary-service/internal/domain"
)

// Travel data for one origin->destination leg as reported by the routing
// backend.
type RouteResult struct {
	DistanceMeters  float64
	DurationSeconds float64
	DistanceText    string
	DurationText    string
	EncodedPath     string
	Steps           []domain.RouteStep
}

// Contract for computing a travel route between two coordinates.
type RouteProvider interface {
	// Return travel data between two coordinates for the given travel mode.
	Route(ctx context.Context, origin, destination domain.Coordinates, mode string) (RouteResult, error)
}
