package routing

import (
	"context"
	"fmt"
	"sync"

	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

type MockLeg struct {
	From, To domain.Coordinates
	Result   ports.RouteResult
}

// MockRouteProvider serves scripted legs and fails on anything else.
// Safe for concurrent use; Calls counts provider invocations so tests can
// assert that cache hits skip the backend.
type MockRouteProvider struct {
	mu    sync.Mutex
	m     map[string]ports.RouteResult
	calls int
}

func NewMockRouteProvider(legs []MockLeg) *MockRouteProvider {
	m := make(map[string]ports.RouteResult, len(legs))
	for _, l := range legs {
		m[legKey(l.From, l.To)] = l.Result
	}
	return &MockRouteProvider{m: m}
}

func legKey(from, to domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f->%.5f,%.5f", from.Lat, from.Lng, to.Lat, to.Lng)
}

func (p *MockRouteProvider) Route(ctx context.Context, origin, destination domain.Coordinates, mode string) (ports.RouteResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	r, ok := p.m[legKey(origin, destination)]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("missing leg %q", legKey(origin, destination))
	}
	return r, nil
}

func (p *MockRouteProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
