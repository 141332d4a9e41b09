package domain

import "time"

// One turn-by-turn instruction within a route segment.
type RouteStep struct {
	Instruction     string
	DistanceMeters  float64
	DurationSeconds float64
}

// Cached travel data between two specific plans under a specific travel
// mode. Origin/Destination duplicate the plans' coordinates at fetch time
// so an entry can be validated without resolving the plans again.
type RouteSegment struct {
	ID              int64
	TripID          int
	FromPlanID      int
	ToPlanID        int
	Mode            string
	Origin          Coordinates
	Destination     Coordinates
	DistanceMeters  float64
	DurationSeconds float64
	DistanceText    string
	DurationText    string
	EncodedPath     string
	Steps           []RouteStep
	CachedAt        time.Time
	UpdatedAt       time.Time
}
