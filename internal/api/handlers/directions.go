package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"trip-itinerary-service/internal/api/dto"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/services"
)

var validModes = map[string]bool{
	"driving":   true,
	"walking":   true,
	"bicycling": true,
}

// DirectionsHandler annotates a trip's ordered plans with travel segments.
type DirectionsHandler struct {
	Repo     ports.PlanRepository
	Segments *services.SegmentCache
}

func (h *DirectionsHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.DirectionsRequest

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

	mode := req.Mode
	if mode == "" {
		mode = "driving"
	}
	if !validModes[mode] {
		writeError(w, r, http.StatusBadRequest, "mode must be one of driving, walking, bicycling")
		return
	}

	plans, err := h.Repo.ListByTrip(r.Context(), req.TripID)
	if err != nil {
		log.Printf("list plans failed: trip=%d err=%v", req.TripID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	// The repository returns plans ordered by (day, start time); an
	// optional day filter narrows the sequence to one itinerary day.
	if req.Day != nil {
		filtered := make([]*domain.Plan, 0, len(plans))
		for _, p := range plans {
			if p.Day == *req.Day {
				filtered = append(filtered, p)
			}
		}
		plans = filtered
	}

	segments, err := h.Segments.FetchForSequence(r.Context(), req.TripID, plans, mode)
	if err != nil {
		log.Printf("fetch directions failed: trip=%d mode=%s err=%v", req.TripID, mode, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.DirectionsResponse{
		TripID:   req.TripID,
		Mode:     mode,
		Segments: make([]dto.RouteSegmentResponse, 0, len(segments)),
	}
	for _, seg := range segments {
		steps := make([]dto.RouteStepResponse, 0, len(seg.Steps))
		for _, s := range seg.Steps {
			steps = append(steps, dto.RouteStepResponse{
				Instruction:     s.Instruction,
				DistanceMeters:  s.DistanceMeters,
				DurationSeconds: s.DurationSeconds,
			})
		}
		res.Segments = append(res.Segments, dto.RouteSegmentResponse{
			FromPlanID:      seg.FromPlanID,
			ToPlanID:        seg.ToPlanID,
			Mode:            seg.Mode,
			DistanceMeters:  seg.DistanceMeters,
			DurationSeconds: seg.DurationSeconds,
			DistanceText:    seg.DistanceText,
			DurationText:    seg.DurationText,
			EncodedPath:     seg.EncodedPath,
			Steps:           steps,
			CachedAt:        seg.CachedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
