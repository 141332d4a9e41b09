package handlers

import (
	"log"
	"net/http"
	"strconv"

	"trip-itinerary-service/internal/api/dto"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

// PlanHandler exposes read-only plan retrieval endpoints.
type PlanHandler struct {
	Repo ports.PlanRepository
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tripID, err := strconv.Atoi(r.URL.Query().Get("trip_id"))
	if err != nil || tripID < 1 {
		writeError(w, r, http.StatusBadRequest, "trip_id must be a positive integer")
		return
	}

	plans, err := h.Repo.ListByTrip(r.Context(), tripID)
	if err != nil {
		log.Printf("list plans failed: trip=%d err=%v", tripID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPlansResponse{Plans: planResponses(plans)}
	writeJSON(w, r, http.StatusOK, res)
}

func planResponses(plans []*domain.Plan) []dto.PlanResponse {
	out := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.PlanResponse{
			PlanID:    p.PlanID,
			TripID:    p.TripID,
			Day:       p.Day,
			Place:     p.Place,
			Lat:       p.Lat,
			Lng:       p.Lng,
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
		})
	}
	return out
}
