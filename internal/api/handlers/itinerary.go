package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"trip-itinerary-service/internal/api/dto"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/services"
)

// ItineraryHandler orchestrates day distribution for a trip.
// It coordinates plan loading, the distribution engine, persistence of the
// resulting day numbers, and segment-cache invalidation (redistribution
// changes which plans are adjacent, so previously cached segments can no
// longer be trusted).
type ItineraryHandler struct {
	Repo     ports.PlanRepository
	Segments *services.SegmentCache
}

func (h *ItineraryHandler) Distribute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ItineraryRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.TripID < 1 {
		writeError(w, r, http.StatusBadRequest, "trip_id must be a positive integer")
		return
	}
	if req.TotalDays < 1 || req.TotalDays > 60 {
		writeError(w, r, http.StatusBadRequest, "total_days must be between 1 and 60")
		return
	}

	plans, err := h.Repo.ListByTrip(r.Context(), req.TripID)
	if err != nil {
		log.Printf("list plans failed: trip=%d err=%v", req.TripID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(plans) == 0 {
		writeError(w, r, http.StatusNotFound, "trip has no plans")
		return
	}

	days, err := services.DistributePlans(plans, req.TotalDays)
	if err != nil {
		log.Printf("distribute plans failed: trip=%d err=%v", req.TripID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Repo.UpdateDayAssignments(r.Context(), days); err != nil {
		log.Printf("persist day assignments failed: trip=%d err=%v", req.TripID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	// Adjacency changed; cached segments for this trip are no longer valid.
	if err := h.Segments.InvalidateForTrip(r.Context(), req.TripID); err != nil {
		log.Printf("invalidate segment cache failed: trip=%d err=%v", req.TripID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ItineraryResponse{
		TripID: req.TripID,
		Days:   make([]dto.ItineraryDayResponse, 0, len(days)),
	}
	for _, d := range days {
		res.Days = append(res.Days, dto.ItineraryDayResponse{
			Day:   d.Day,
			Plans: planResponses(d.Plans),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
