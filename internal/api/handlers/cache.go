package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"trip-itinerary-service/internal/api/dto"
	"trip-itinerary-service/internal/services"
)

// CacheHandler exposes explicit segment-cache invalidation, used when a
// trip's plan set changes outside of redistribution (plan edits or
// deletions in the client).
type CacheHandler struct {
	Segments *services.SegmentCache
}

func (h *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.InvalidateCacheRequest

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

	if err := h.Segments.InvalidateForTrip(r.Context(), req.TripID); err != nil {
		log.Printf("invalidate segment cache failed: trip=%d err=%v", req.TripID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "invalidated"})
}
