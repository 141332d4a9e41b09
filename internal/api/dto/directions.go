package dto

import "time"

type DirectionsRequest struct {
	TripID int    `json:"trip_id"`
	Mode   string `json:"mode"`
	Day    *int   `json:"day"`
}

type RouteStepResponse struct {
	Instruction     string  `json:"instruction"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type RouteSegmentResponse struct {
	FromPlanID      int                 `json:"from_plan_id"`
	ToPlanID        int                 `json:"to_plan_id"`
	Mode            string              `json:"mode"`
	DistanceMeters  float64             `json:"distance_meters"`
	DurationSeconds float64             `json:"duration_seconds"`
	DistanceText    string              `json:"distance_text"`
	DurationText    string              `json:"duration_text"`
	EncodedPath     string              `json:"encoded_path"`
	Steps           []RouteStepResponse `json:"steps"`
	CachedAt        time.Time           `json:"cached_at"`
}

type DirectionsResponse struct {
	TripID   int                    `json:"trip_id"`
	Mode     string                 `json:"mode"`
	Segments []RouteSegmentResponse `json:"segments"`
}

type InvalidateCacheRequest struct {
	TripID int `json:"trip_id"`
}
