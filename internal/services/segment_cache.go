package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

// Cached route data older than this is no longer trusted.
const segmentMaxAge = 7 * 24 * time.Hour

// Cap on simultaneous in-flight routing calls so a long plan sequence does
// not overwhelm the routing backend.
const defaultMaxInFlight = 5

// SegmentCache is a keyed, time-bounded cache of computed travel segments
// between consecutive plans.
//
// It validates stored entries (travel mode and age) on read, delegates
// misses to the routing provider, and persists fresh results. Invalidation
// is explicit and per trip; reads never delete anything.
type SegmentCache struct {
	repo        ports.SegmentRepository
	provider    ports.RouteProvider
	maxInFlight int

	// now is swappable so staleness can be tested without sleeping.
	now func() time.Time
}

func NewSegmentCache(repo ports.SegmentRepository, provider ports.RouteProvider) *SegmentCache {
	return &SegmentCache{
		repo:        repo,
		provider:    provider,
		maxInFlight: defaultMaxInFlight,
		now:         time.Now,
	}
}

// Get returns the cached segment for a plan pair, or nil when the cache
// has nothing usable. A stored entry only counts as a hit when its travel
// mode matches and it is younger than the staleness threshold; an expired
// entry stays in storage until explicitly invalidated or superseded.
func (c *SegmentCache) Get(ctx context.Context, fromPlanID, toPlanID int, mode string) (*domain.RouteSegment, error) {
	if c.repo == nil {
		return nil, errors.New("segment cache: repository is nil")
	}

	seg, err := c.repo.Get(ctx, fromPlanID, toPlanID)
	if err != nil {
		return nil, fmt.Errorf("segment cache: get %d->%d: %w", fromPlanID, toPlanID, err)
	}
	if seg == nil || seg.Mode != mode {
		return nil, nil
	}
	if c.now().Sub(seg.CachedAt) >= segmentMaxAge {
		return nil, nil
	}

	return seg, nil
}

// Put upserts a segment by (fromPlanID, toPlanID) and returns the stored
// value with its assigned identifier. A later write supersedes the old row
// for future reads; whether the old row is physically removed is up to the
// repository.
func (c *SegmentCache) Put(ctx context.Context, seg *domain.RouteSegment) (*domain.RouteSegment, error) {
	if c.repo == nil {
		return nil, errors.New("segment cache: repository is nil")
	}
	if seg == nil {
		return nil, errors.New("segment cache: segment is nil")
	}

	seg.UpdatedAt = c.now()
	if seg.CachedAt.IsZero() {
		seg.CachedAt = seg.UpdatedAt
	}

	stored, err := c.repo.Put(ctx, seg)
	if err != nil {
		return nil, fmt.Errorf("segment cache: put %d->%d: %w", seg.FromPlanID, seg.ToPlanID, err)
	}
	return stored, nil
}

// InvalidateForTrip deletes every cached segment belonging to the trip.
// Callers invoke this whenever a trip's plan set or day assignment changes
// in a way that could affect which plans are adjacent.
func (c *SegmentCache) InvalidateForTrip(ctx context.Context, tripID int) error {
	if c.repo == nil {
		return errors.New("segment cache: repository is nil")
	}

	if err := c.repo.DeleteByTrip(ctx, tripID); err != nil {
		return fmt.Errorf("segment cache: invalidate trip %d: %w", tripID, err)
	}
	return nil
}

type sequenceLeg struct {
	from, to *domain.Plan
	origin   domain.Coordinates
	dest     domain.Coordinates
}

// FetchForSequence returns one segment per consecutive pair in the ordered
// plan sequence, consulting the cache first and the routing provider on
// misses. Plans without valid coordinates are filtered out before pairing.
//
// Legs are fetched with bounded concurrency, and the result list is in
// input-sequence order, not completion order. A leg whose routing call
// fails is logged and omitted; the rest of the sequence proceeds.
func (c *SegmentCache) FetchForSequence(ctx context.Context, tripID int, orderedPlans []*domain.Plan, mode string) ([]*domain.RouteSegment, error) {
	if c.repo == nil {
		return nil, errors.New("segment cache: repository is nil")
	}
	// A missing provider is a configuration problem; surface it once
	// rather than as one failure per pair.
	if c.provider == nil {
		return nil, errors.New("segment cache: route provider is not configured")
	}

	routable := make([]*domain.Plan, 0, len(orderedPlans))
	positions := make([]domain.Coordinates, 0, len(orderedPlans))
	for _, p := range orderedPlans {
		if coord, ok := p.Coordinates(); ok {
			routable = append(routable, p)
			positions = append(positions, coord)
		}
	}
	if len(routable) < 2 {
		return []*domain.RouteSegment{}, nil
	}

	legs := make([]sequenceLeg, 0, len(routable)-1)
	for i := 0; i < len(routable)-1; i++ {
		legs = append(legs, sequenceLeg{
			from:   routable[i],
			to:     routable[i+1],
			origin: positions[i],
			dest:   positions[i+1],
		})
	}

	results := make([]*domain.RouteSegment, len(legs))
	sem := make(chan struct{}, c.maxInFlight)
	var wg sync.WaitGroup

	for i, leg := range legs {
		wg.Add(1)
		go func(i int, leg sequenceLeg) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			seg, err := c.fetchLeg(ctx, tripID, leg, mode)
			if err != nil {
				// Partial-result policy: this leg is unavailable, the
				// rest of the sequence still counts.
				log.Printf("fetch segment failed: trip=%d from=%d to=%d mode=%s err=%v",
					tripID, leg.from.PlanID, leg.to.PlanID, mode, err)
				return
			}
			results[i] = seg
		}(i, leg)
	}
	wg.Wait()

	out := make([]*domain.RouteSegment, 0, len(results))
	for _, seg := range results {
		if seg != nil {
			out = append(out, seg)
		}
	}
	return out, nil
}

func (c *SegmentCache) fetchLeg(ctx context.Context, tripID int, leg sequenceLeg, mode string) (*domain.RouteSegment, error) {
	cached, err := c.Get(ctx, leg.from.PlanID, leg.to.PlanID, mode)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	res, err := c.provider.Route(ctx, leg.origin, leg.dest, mode)
	if err != nil {
		return nil, fmt.Errorf("route %d->%d: %w", leg.from.PlanID, leg.to.PlanID, err)
	}

	seg := &domain.RouteSegment{
		TripID:          tripID,
		FromPlanID:      leg.from.PlanID,
		ToPlanID:        leg.to.PlanID,
		Mode:            mode,
		Origin:          leg.origin,
		Destination:     leg.dest,
		DistanceMeters:  res.DistanceMeters,
		DurationSeconds: res.DurationSeconds,
		DistanceText:    res.DistanceText,
		DurationText:    res.DurationText,
		EncodedPath:     res.EncodedPath,
		Steps:           res.Steps,
		CachedAt:        c.now(),
	}

	stored, err := c.Put(ctx, seg)
	if err != nil {
		// The routing data is still good; serve it and let a later call
		// retry the write.
		log.Printf("segment cache write failed: trip=%d from=%d to=%d err=%v",
			tripID, leg.from.PlanID, leg.to.PlanID, err)
		return seg, nil
	}
	return stored, nil
}
