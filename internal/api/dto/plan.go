package dto

type PlanResponse struct {
	PlanID    int      `json:"plan_id"`
	TripID    int      `json:"trip_id"`
	Day       int      `json:"day"`
	Place     string   `json:"place"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time,omitempty"`
}

type ListPlansResponse struct {
	Plans []PlanResponse `json:"plans"`
}
