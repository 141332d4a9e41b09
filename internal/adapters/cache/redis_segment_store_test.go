package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trip-itinerary-service/internal/domain"
)

func newTestRedisStore(t *testing.T) *RedisSegmentStore {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSegmentStore(client)
}

func redisTestSegment(tripID, from, to int) *domain.RouteSegment {
	return &domain.RouteSegment{
		TripID:          tripID,
		FromPlanID:      from,
		ToPlanID:        to,
		Mode:            "walking",
		Origin:          domain.Coordinates{Lat: 35.6812, Lng: 139.7671},
		Destination:     domain.Coordinates{Lat: 35.6580, Lng: 139.7016},
		DistanceMeters:  6450,
		DurationSeconds: 4800,
		DistanceText:    "6.5 km",
		DurationText:    "1 hour 20 mins",
		EncodedPath:     "_p~iF~ps|U_ulLnnqC",
		Steps: []domain.RouteStep{
			{Instruction: "Head south", DistanceMeters: 1200, DurationSeconds: 900},
		},
		CachedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRedisSegmentStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	stored, err := store.Put(ctx, redisTestSegment(1, 10, 11))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if stored.ID == 0 {
		t.Error("expected an assigned id")
	}

	got, err := store.Get(ctx, 10, 11)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored segment")
	}
	if got.DistanceMeters != 6450 || got.EncodedPath != "_p~iF~ps|U_ulLnnqC" {
		t.Errorf("segment fields lost in round trip: %+v", got)
	}
	if len(got.Steps) != 1 || got.Steps[0].Instruction != "Head south" {
		t.Errorf("steps lost in round trip: %+v", got.Steps)
	}
	if !got.CachedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("cached_at changed: %v", got.CachedAt)
	}
}

func TestRedisSegmentStoreGetAbsent(t *testing.T) {
	store := newTestRedisStore(t)

	got, err := store.Get(context.Background(), 99, 100)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent pair, got %+v", got)
	}
}

func TestRedisSegmentStoreUpsertKeepsOneRowPerPair(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	first, err := store.Put(ctx, redisTestSegment(1, 10, 11))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	replacement := redisTestSegment(1, 10, 11)
	replacement.DistanceMeters = 7000
	if _, err := store.Put(ctx, replacement); err != nil {
		t.Fatalf("put replacement: %v", err)
	}

	got, err := store.Get(ctx, 10, 11)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DistanceMeters != 7000 {
		t.Errorf("expected replacement value, got %f", got.DistanceMeters)
	}
	_ = first
}

func TestRedisSegmentStoreDeleteByTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if _, err := store.Put(ctx, redisTestSegment(1, 10, 11)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, redisTestSegment(1, 11, 12)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, redisTestSegment(2, 20, 21)); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := store.DeleteByTrip(ctx, 1); err != nil {
		t.Fatalf("delete by trip: %v", err)
	}

	for _, pair := range [][2]int{{10, 11}, {11, 12}} {
		got, err := store.Get(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != nil {
			t.Errorf("segment %d->%d survived trip invalidation", pair[0], pair[1])
		}
	}

	got, err := store.Get(ctx, 20, 21)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Error("other trip's segment must survive invalidation")
	}
}
