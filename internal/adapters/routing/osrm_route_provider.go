package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/platform/obs"
	"trip-itinerary-service/internal/ports"
)

// OSRMRouteProvider implements RouteProvider against an OSRM instance.
//
// It maps travel modes onto OSRM profiles, requests full-geometry routes
// with turn-by-turn steps, and retries transient failures with backoff.
// The provider is safe for concurrent use.
type OSRMRouteProvider struct {
	session *http.Client
	baseURL string
}

func NewOSRMRouteProvider(baseURL string) (*OSRMRouteProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("OSRM base URL is empty")
	}

	return &OSRMRouteProvider{
		session: &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// profileFor maps a travel mode onto an OSRM routing profile. Unknown
// modes fall back to driving.
func profileFor(mode string) string {
	switch mode {
	case "walking":
		return "foot"
	case "bicycling":
		return "bike"
	default:
		return "driving"
	}
}

type osrmManeuver struct {
	Type     string `json:"type"`
	Modifier string `json:"modifier"`
}

type osrmStep struct {
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Name     string       `json:"name"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmRoute struct {
	Distance float64   `json:"distance"`
	Duration float64   `json:"duration"`
	Geometry string    `json:"geometry"`
	Legs     []osrmLeg `json:"legs"`
}

type osrmRouteResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

// Route computes a single origin->destination leg.
func (o *OSRMRouteProvider) Route(ctx context.Context, origin, destination domain.Coordinates, mode string) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	if !origin.Valid() || !destination.Valid() {
		return ports.RouteResult{}, errors.New("get OSRM route: origin and destination must be valid coordinates")
	}

	// OSRM takes lng,lat pairs.
	coords := fmt.Sprintf("%f,%f;%f,%f", origin.Lng, origin.Lat, destination.Lng, destination.Lat)
	query := url.Values{}
	query.Set("overview", "full")
	query.Set("steps", "true")
	query.Set("geometries", "polyline")

	requestURL := fmt.Sprintf("%s/route/v1/%s/%s?%s", o.baseURL, profileFor(mode), coords, query.Encode())

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, requestURL)
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("get OSRM route: %w", err)
	}
	defer resp.Body.Close()

	var body osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.RouteResult{}, fmt.Errorf("get OSRM route: decode response: %w", err)
	}

	if body.Code != "Ok" {
		return ports.RouteResult{}, fmt.Errorf("get OSRM route: service returned %q: %s", body.Code, body.Message)
	}
	if len(body.Routes) == 0 {
		return ports.RouteResult{}, errors.New("get OSRM route: no routes in response")
	}

	route := body.Routes[0]
	steps := make([]domain.RouteStep, 0, 8)
	for _, leg := range route.Legs {
		for _, s := range leg.Steps {
			steps = append(steps, domain.RouteStep{
				Instruction:     stepInstruction(s),
				DistanceMeters:  s.Distance,
				DurationSeconds: s.Duration,
			})
		}
	}

	return ports.RouteResult{
		DistanceMeters:  route.Distance,
		DurationSeconds: route.Duration,
		DistanceText:    formatDistance(route.Distance),
		DurationText:    formatDuration(route.Duration),
		EncodedPath:     route.Geometry,
		Steps:           steps,
	}, nil
}

func stepInstruction(s osrmStep) string {
	parts := make([]string, 0, 3)
	if s.Maneuver.Type != "" {
		parts = append(parts, s.Maneuver.Type)
	}
	if s.Maneuver.Modifier != "" {
		parts = append(parts, s.Maneuver.Modifier)
	}
	if s.Name != "" {
		parts = append(parts, "onto "+s.Name)
	}
	if len(parts) == 0 {
		return "continue"
	}
	return strings.Join(parts, " ")
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func formatDuration(seconds float64) string {
	mins := int(seconds/60 + 0.5)
	if mins < 1 {
		return "1 min"
	}
	if mins < 60 {
		return fmt.Sprintf("%d mins", mins)
	}
	return fmt.Sprintf("%d hr %d mins", mins/60, mins%60)
}
