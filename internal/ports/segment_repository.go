package ports

import (
	"context"

	"trip-itinerary-service/internal/domain"
)

// Port: a boundary for persisting computed route segments.
//
// Implementations store whatever they are given and return whatever they
// have; freshness and travel-mode validation happen in the cache service,
// so a repository never deletes rows on read.
type SegmentRepository interface {
	// Return the stored segment for a plan pair, or nil when absent.
	Get(ctx context.Context, fromPlanID, toPlanID int) (*domain.RouteSegment, error)
	// Upsert a segment keyed by (fromPlanID, toPlanID) and return the
	// stored value with its assigned identifier.
	Put(ctx context.Context, seg *domain.RouteSegment) (*domain.RouteSegment, error)
	// Delete every segment associated with the trip.
	DeleteByTrip(ctx context.Context, tripID int) error
}
