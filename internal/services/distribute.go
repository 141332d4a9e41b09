package services

import (
	"fmt"
	"slices"
	"strings"

	"trip-itinerary-service/internal/domain"
)

// Start time assumed for ordering when a plan has none. Never persisted.
const defaultStartTime = "09:00"

// DistributePlans partitions a trip's plans into day buckets that keep
// geographically close plans on the same day.
//
// Geolocated plans are clustered with k = totalDays; clusters become days
// ordered north to south by mean latitude, and each day's plans are sorted
// by start time. Plans without coordinates are spread round-robin across
// the days, trailing the sorted plans. When no plan has coordinates the
// input is sliced into contiguous even chunks instead.
//
// The north-to-south day ordering and the round-robin placement are fixed
// policy, not optimization results; output stability depends on them.
//
// The result always holds exactly totalDays entries in ascending day
// order, and every input plan appears exactly once across all days. The
// input slice is never restructured; plan objects are referenced, not
// copied, and their Day field is assigned as the engine's output.
func DistributePlans(plans []*domain.Plan, totalDays int) ([]domain.ItineraryDay, error) {
	if totalDays < 1 {
		return nil, fmt.Errorf("distribute plans: totalDays must be >= 1, got %d", totalDays)
	}

	days := make([]domain.ItineraryDay, totalDays)
	for i := range days {
		days[i] = domain.ItineraryDay{Day: i + 1, Plans: []*domain.Plan{}}
	}

	withCoords := make([]*domain.Plan, 0, len(plans))
	coords := make([]domain.Coordinates, 0, len(plans))
	withoutCoords := make([]*domain.Plan, 0)
	for _, p := range plans {
		if c, ok := p.Coordinates(); ok {
			withCoords = append(withCoords, p)
			coords = append(coords, c)
		} else {
			withoutCoords = append(withoutCoords, p)
		}
	}

	if len(withCoords) == 0 {
		// No geography to work with: slice the full list into contiguous
		// even chunks in input order.
		chunk := (len(plans) + totalDays - 1) / totalDays
		for i, p := range plans {
			days[i/chunk].Plans = append(days[i/chunk].Plans, p)
		}
		applyDayNumbers(days)
		return days, nil
	}

	assignment := ClusterCoordinates(coords, totalDays)

	groups := make(map[int][]*domain.Plan, totalDays)
	for i, p := range withCoords {
		groups[assignment[i]] = append(groups[assignment[i]], p)
	}

	indices := make([]int, 0, len(groups))
	for idx := range groups {
		indices = append(indices, idx)
	}

	// Day 1 is the northernmost cluster. Equal means fall back to cluster
	// index so the ordering stays reproducible.
	slices.SortFunc(indices, func(a, b int) int {
		la := meanLatitude(groups[a])
		lb := meanLatitude(groups[b])
		if la > lb {
			return -1
		}
		if la < lb {
			return 1
		}
		return a - b
	})

	for d, idx := range indices {
		members := groups[idx]
		slices.SortStableFunc(members, func(a, b *domain.Plan) int {
			return strings.Compare(startKey(a), startKey(b))
		})
		days[d].Plans = members
	}

	// Coordinate-less plans trail each day's sorted plans.
	for i, p := range withoutCoords {
		d := i % totalDays
		days[d].Plans = append(days[d].Plans, p)
	}

	applyDayNumbers(days)
	return days, nil
}

func applyDayNumbers(days []domain.ItineraryDay) {
	for i := range days {
		for _, p := range days[i].Plans {
			p.Day = days[i].Day
		}
	}
}

func meanLatitude(plans []*domain.Plan) float64 {
	var sum float64
	for _, p := range plans {
		sum += *p.Lat
	}
	return sum / float64(len(plans))
}

// startKey returns the lexicographic ordering key for a plan's start time,
// valid because the format is zero-padded HH:MM.
func startKey(p *domain.Plan) string {
	if p.StartTime == "" {
		return defaultStartTime
	}
	return p.StartTime
}
