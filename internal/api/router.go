package api

import (
	"net/http"

	"trip-itinerary-service/internal/api/handlers"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(plans ports.PlanRepository, segments *services.SegmentCache) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{Repo: plans}
	itineraryHandler := &handlers.ItineraryHandler{Repo: plans, Segments: segments}
	directionsHandler := &handlers.DirectionsHandler{Repo: plans, Segments: segments}
	cacheHandler := &handlers.CacheHandler{Segments: segments}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/plans", planHandler.List)
	mux.HandleFunc("/itinerary", itineraryHandler.Distribute)
	mux.HandleFunc("/directions", directionsHandler.Fetch)
	mux.HandleFunc("/cache/invalidate", cacheHandler.Invalidate)

	return loggingMiddleware(mux)
}
