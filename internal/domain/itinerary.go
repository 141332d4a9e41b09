package domain

// One calendar day of a trip and the plans assigned to it, in visit order.
// A distribution covers every day of the trip, including empty ones.
type ItineraryDay struct {
	Day   int
	Plans []*Plan
}
