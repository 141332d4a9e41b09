package services

import (
	"testing"

	"trip-itinerary-service/internal/domain"
)

func TestClusterCoordinatesSingletons(t *testing.T) {
	points := []domain.Coordinates{
		{Lat: 35.6812, Lng: 139.7671},
		{Lat: 35.6580, Lng: 139.7016},
		{Lat: 35.7100, Lng: 139.8107},
	}

	got := ClusterCoordinates(points, 5)

	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %d assignments, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d assigned to cluster %d, want %d", i, got[i], want[i])
		}
	}
}

func TestClusterCoordinatesTwoGroups(t *testing.T) {
	// Two obvious latitude bands: the first three points must share a
	// cluster and the last two another.
	points := []domain.Coordinates{
		{Lat: 10, Lng: 100},
		{Lat: 10.01, Lng: 100},
		{Lat: 10.02, Lng: 100},
		{Lat: 50, Lng: 100},
		{Lat: 50.01, Lng: 100},
	}

	got := ClusterCoordinates(points, 2)
	if len(got) != 5 {
		t.Fatalf("expected 5 assignments, got %d", len(got))
	}

	if got[0] != got[1] || got[1] != got[2] {
		t.Errorf("southern band split across clusters: %v", got)
	}
	if got[3] != got[4] {
		t.Errorf("northern band split across clusters: %v", got)
	}
	if got[0] == got[3] {
		t.Errorf("both bands collapsed into one cluster: %v", got)
	}
}

func TestClusterCoordinatesDeterministic(t *testing.T) {
	points := []domain.Coordinates{
		{Lat: 48.8566, Lng: 2.3522},
		{Lat: 48.8606, Lng: 2.3376},
		{Lat: 48.8530, Lng: 2.3499},
		{Lat: 48.8867, Lng: 2.3431},
		{Lat: 48.8462, Lng: 2.3372},
		{Lat: 48.8738, Lng: 2.2950},
		{Lat: 48.8584, Lng: 2.2945},
	}

	first := ClusterCoordinates(points, 3)
	second := ClusterCoordinates(points, 3)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("assignments differ between identical runs: %v vs %v", first, second)
		}
	}
}

func TestClusterCoordinatesEmpty(t *testing.T) {
	if got := ClusterCoordinates(nil, 3); len(got) != 0 {
		t.Errorf("expected empty assignment, got %v", got)
	}
}

func TestClusterCoordinatesIndicesInRange(t *testing.T) {
	points := make([]domain.Coordinates, 0, 12)
	for i := 0; i < 12; i++ {
		points = append(points, domain.Coordinates{
			Lat: 40 + float64(i)*0.3,
			Lng: -3 + float64(i%4)*0.2,
		})
	}

	got := ClusterCoordinates(points, 4)
	for i, c := range got {
		if c < 0 || c >= 4 {
			t.Errorf("point %d assigned out-of-range cluster %d", i, c)
		}
	}
}
