package services

import (
	"testing"

	"trip-itinerary-service/internal/domain"
)

func geoPlan(id int, lat, lng float64, start string) *domain.Plan {
	return &domain.Plan{PlanID: id, TripID: 1, Place: "place", Lat: &lat, Lng: &lng, StartTime: start}
}

func barePlan(id int, start string) *domain.Plan {
	return &domain.Plan{PlanID: id, TripID: 1, Place: "place", StartTime: start}
}

func planIDs(day domain.ItineraryDay) []int {
	ids := make([]int, 0, len(day.Plans))
	for _, p := range day.Plans {
		ids = append(ids, p.PlanID)
	}
	return ids
}

func TestDistributePlansRejectsInvalidTotalDays(t *testing.T) {
	if _, err := DistributePlans([]*domain.Plan{barePlan(1, "10:00")}, 0); err == nil {
		t.Fatal("expected error for totalDays=0")
	}
	if _, err := DistributePlans([]*domain.Plan{barePlan(1, "10:00")}, -2); err == nil {
		t.Fatal("expected error for negative totalDays")
	}
}

func TestDistributePlansCoversEveryPlanExactlyOnce(t *testing.T) {
	plans := []*domain.Plan{
		geoPlan(1, 35.68, 139.76, "10:00"),
		geoPlan(2, 35.65, 139.70, "09:00"),
		geoPlan(3, 35.71, 139.81, "14:00"),
		barePlan(4, "12:00"),
		geoPlan(5, 34.69, 135.50, "11:00"),
		barePlan(6, ""),
	}

	days, err := DistributePlans(plans, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}

	seen := make(map[int]int)
	for i, d := range days {
		if d.Day != i+1 {
			t.Errorf("day at index %d numbered %d, want %d", i, d.Day, i+1)
		}
		for _, p := range d.Plans {
			seen[p.PlanID]++
			if p.Day != d.Day {
				t.Errorf("plan %d carries day %d but sits in bucket %d", p.PlanID, p.Day, d.Day)
			}
		}
	}

	if len(seen) != len(plans) {
		t.Fatalf("expected %d distinct plans, got %d", len(plans), len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("plan %d appears %d times", id, n)
		}
	}
}

func TestDistributePlansNorthernClusterGetsDayOne(t *testing.T) {
	plans := []*domain.Plan{
		geoPlan(1, 10, 100, "10:00"),
		geoPlan(2, 10.01, 100, "09:00"),
		geoPlan(3, 10.02, 100, "14:00"),
		geoPlan(4, 50, 100, "11:00"),
		geoPlan(5, 50.01, 100, "08:00"),
	}

	days, err := DistributePlans(plans, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days[0].Plans) != 2 {
		t.Fatalf("day 1 has %d plans, want 2 (ids %v)", len(days[0].Plans), planIDs(days[0]))
	}
	if len(days[1].Plans) != 3 {
		t.Fatalf("day 2 has %d plans, want 3 (ids %v)", len(days[1].Plans), planIDs(days[1]))
	}

	// Higher mean latitude first, then start-time order within the day.
	if got := planIDs(days[0]); got[0] != 5 || got[1] != 4 {
		t.Errorf("day 1 = %v, want [5 4]", got)
	}
	if got := planIDs(days[1]); got[0] != 2 || got[1] != 1 || got[2] != 3 {
		t.Errorf("day 2 = %v, want [2 1 3]", got)
	}
}

func TestDistributePlansEvenSlicingWithoutCoordinates(t *testing.T) {
	plans := []*domain.Plan{
		barePlan(1, "10:00"),
		barePlan(2, "08:00"),
		barePlan(3, "12:00"),
		barePlan(4, "09:00"),
		barePlan(5, "15:00"),
		barePlan(6, "07:00"),
	}

	days, err := DistributePlans(plans, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]int{{1, 2}, {3, 4}, {5, 6}}
	for i, w := range want {
		got := planIDs(days[i])
		if len(got) != len(w) {
			t.Fatalf("day %d = %v, want %v", i+1, got, w)
		}
		for j := range w {
			if got[j] != w[j] {
				t.Errorf("day %d = %v, want %v (input order preserved)", i+1, got, w)
			}
		}
	}
}

func TestDistributePlansSingletonRule(t *testing.T) {
	plans := []*domain.Plan{
		geoPlan(1, 41.39, 2.17, "10:00"),
		geoPlan(2, 41.40, 2.15, "09:00"),
	}

	days, err := DistributePlans(plans, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(days))
	}

	occupied := 0
	for _, d := range days {
		switch len(d.Plans) {
		case 0:
		case 1:
			occupied++
		default:
			t.Errorf("day %d holds %d plans, want at most 1 when plans are scarce", d.Day, len(d.Plans))
		}
	}
	if occupied != 2 {
		t.Errorf("expected 2 occupied days, got %d", occupied)
	}
}

func TestDistributePlansRoundRobinTrailsSortedPlans(t *testing.T) {
	plans := []*domain.Plan{
		geoPlan(1, 52.52, 13.40, "15:00"),
		geoPlan(2, 52.53, 13.41, "09:30"),
		geoPlan(3, 52.51, 13.39, "11:00"),
		barePlan(4, "06:00"),
		barePlan(5, "06:30"),
		barePlan(6, "07:00"),
	}

	days, err := DistributePlans(plans, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Round-robin: plan 4 -> day 1, plan 5 -> day 2, plan 6 -> day 1,
	// always appended after the coordinate-sorted plans regardless of
	// start time.
	day1 := planIDs(days[0])
	if day1[len(day1)-2] != 4 || day1[len(day1)-1] != 6 {
		t.Errorf("day 1 = %v, want plans 4 and 6 trailing", day1)
	}
	day2 := planIDs(days[1])
	if day2[len(day2)-1] != 5 {
		t.Errorf("day 2 = %v, want plan 5 trailing", day2)
	}

	// Coordinate-bearing plans stay sorted by start time ahead of them.
	for _, d := range days {
		last := ""
		for _, p := range d.Plans {
			if p.Lat == nil {
				break
			}
			if last != "" && p.StartTime < last {
				t.Errorf("day %d not sorted by start time: %v", d.Day, planIDs(d))
			}
			last = p.StartTime
		}
	}
}

func TestDistributePlansMissingStartTimeOrdersAsNine(t *testing.T) {
	plans := []*domain.Plan{
		geoPlan(1, 45.46, 9.19, "10:00"),
		geoPlan(2, 45.47, 9.18, ""), // treated as 09:00 for ordering only
		geoPlan(3, 45.45, 9.20, "08:00"),
	}

	days, err := DistributePlans(plans, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := planIDs(days[0])
	if got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Errorf("day 1 = %v, want [3 2 1]", got)
	}
	if plans[1].StartTime != "" {
		t.Error("default start time must not be persisted on the plan")
	}
}

func TestDistributePlansDeterministic(t *testing.T) {
	build := func() []*domain.Plan {
		return []*domain.Plan{
			geoPlan(1, 48.85, 2.35, "10:00"),
			geoPlan(2, 48.86, 2.33, "09:00"),
			geoPlan(3, 43.60, 1.44, "14:00"),
			geoPlan(4, 43.61, 1.45, "11:00"),
			barePlan(5, "12:00"),
		}
	}

	first, err := DistributePlans(build(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := DistributePlans(build(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		a, b := planIDs(first[i]), planIDs(second[i])
		if len(a) != len(b) {
			t.Fatalf("day %d sizes differ between runs", i+1)
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("day %d differs between runs: %v vs %v", i+1, a, b)
			}
		}
	}
}

func TestDistributePlansPadsToTotalDays(t *testing.T) {
	// Both points collapse into one cluster seed region; with more days
	// than distinct groups the tail days must still exist, empty.
	plans := []*domain.Plan{
		geoPlan(1, 40.41, -3.70, "10:00"),
	}

	days, err := DistributePlans(plans, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if len(days[0].Plans) != 1 || len(days[1].Plans) != 0 || len(days[2].Plans) != 0 {
		t.Errorf("expected single plan on day 1 and empty tail days, got %v/%v/%v",
			planIDs(days[0]), planIDs(days[1]), planIDs(days[2]))
	}
	if days[2].Day != 3 {
		t.Errorf("padded day numbered %d, want 3", days[2].Day)
	}
}
