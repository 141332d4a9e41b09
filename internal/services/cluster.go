package services

import (
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/geo"
)

// Upper bound on reassignment rounds. The loop is a heuristic, not an
// exact solver; convergence beyond the cap is not required.
const maxClusterRounds = 20

// ClusterCoordinates partitions points into k groups using iterative
// centroid reassignment with great-circle distance as the metric.
//
// Centroids are seeded from the input itself (every floor(n/k)-th point in
// input order) rather than randomly, so identical input always produces
// identical output. Ties go to the lowest centroid index. Centroids are
// recomputed as the plain arithmetic mean of member lat/lng, which is a
// deliberate approximation at city/country scale.
//
// The returned slice holds one cluster index per input point. Callers must
// pass k >= 1.
func ClusterCoordinates(points []domain.Coordinates, k int) []int {
	n := len(points)
	if n == 0 {
		return []int{}
	}

	// Scarce points: every point becomes its own singleton cluster so no
	// two points ever share a group.
	if n <= k {
		assignment := make([]int, n)
		for i := range assignment {
			assignment[i] = i
		}
		return assignment
	}

	step := n / k
	centroids := make([]domain.Coordinates, k)
	for i := 0; i < k; i++ {
		centroids[i] = points[i*step]
	}

	assignment := make([]int, n)
	for i := range assignment {
		assignment[i] = -1
	}

	for round := 0; round < maxClusterRounds; round++ {
		next := make([]int, n)
		for i, p := range points {
			best := 0
			bestDist := geo.Haversine(p, centroids[0])
			for c := 1; c < k; c++ {
				if d := geo.Haversine(p, centroids[c]); d < bestDist {
					best = c
					bestDist = d
				}
			}
			next[i] = best
		}

		// Fixed point: assignments stopped moving between rounds.
		if equalAssignments(assignment, next) {
			break
		}
		assignment = next

		sumLat := make([]float64, k)
		sumLng := make([]float64, k)
		count := make([]int, k)
		for i, c := range assignment {
			sumLat[c] += points[i].Lat
			sumLng[c] += points[i].Lng
			count[c]++
		}
		// Empty clusters keep their previous centroid.
		for c := 0; c < k; c++ {
			if count[c] > 0 {
				centroids[c] = domain.Coordinates{
					Lat: sumLat[c] / float64(count[c]),
					Lng: sumLng[c] / float64(count[c]),
				}
			}
		}
	}

	return assignment
}

func equalAssignments(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
