package dto

type ItineraryRequest struct {
	TripID    int `json:"trip_id"`
	TotalDays int `json:"total_days"`
}

type ItineraryDayResponse struct {
	Day   int            `json:"day"`
	Plans []PlanResponse `json:"plans"`
}

type ItineraryResponse struct {
	TripID int                    `json:"trip_id"`
	Days   []ItineraryDayResponse `json:"days"`
}
