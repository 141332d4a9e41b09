package domain

// A single scheduled activity within a trip, optionally geolocated.
// Plans are read-only inputs to the planning engine except for Day, which
// the engine assigns.
type Plan struct {
	PlanID    int
	TripID    int
	Day       int
	Place     string
	Lat       *float64
	Lng       *float64
	StartTime string // zero-padded HH:MM, may be empty
	EndTime   string // optional
}

// Coordinates returns the plan's position and whether it has one.
// A plan either has both components or neither.
func (p *Plan) Coordinates() (Coordinates, bool) {
	if p.Lat == nil || p.Lng == nil {
		return Coordinates{}, false
	}
	c := Coordinates{Lat: *p.Lat, Lng: *p.Lng}
	return c, c.Valid()
}
