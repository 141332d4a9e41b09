package ports

import (
	"context"

	"trip-itinerary-service/internal/domain"
)

// Port: a boundary for retrieving and updating Plan entities.
type PlanRepository interface {
	// Retrieve a trip's plans ordered by day, then start time.
	ListByTrip(ctx context.Context, tripID int) ([]*domain.Plan, error)
	// Persist the day numbers of a computed distribution.
	UpdateDayAssignments(ctx context.Context, days []domain.ItineraryDay) error
}
