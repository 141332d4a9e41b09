package cache

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"trip-itinerary-service/internal/adapters/repositories"
	"trip-itinerary-service/internal/domain"
)

func newTestSqliteStore(t *testing.T) *SqliteSegmentStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Each pooled connection would otherwise see its own :memory: database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return NewSqliteSegmentStore(db)
}

func TestSqliteSegmentStoreRoundTrip(t *testing.T) {
	store := newTestSqliteStore(t)
	ctx := context.Background()

	in := &domain.RouteSegment{
		TripID:          1,
		FromPlanID:      10,
		ToPlanID:        11,
		Mode:            "driving",
		Origin:          domain.Coordinates{Lat: 48.8566, Lng: 2.3522},
		Destination:     domain.Coordinates{Lat: 48.8606, Lng: 2.3376},
		DistanceMeters:  1800,
		DurationSeconds: 420,
		DistanceText:    "1.8 km",
		DurationText:    "7 mins",
		EncodedPath:     "abc|def",
		Steps: []domain.RouteStep{
			{Instruction: "Head west on Rue de Rivoli", DistanceMeters: 900, DurationSeconds: 200},
			{Instruction: "Turn right", DistanceMeters: 900, DurationSeconds: 220},
		},
		CachedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	stored, err := store.Put(ctx, in)
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
	if got.Mode != "driving" || got.DistanceMeters != 1800 || got.EncodedPath != "abc|def" {
		t.Errorf("segment fields lost in round trip: %+v", got)
	}
	if len(got.Steps) != 2 || got.Steps[1].Instruction != "Turn right" {
		t.Errorf("steps lost in round trip: %+v", got.Steps)
	}
	if !got.CachedAt.Equal(in.CachedAt) {
		t.Errorf("cached_at changed: %v", got.CachedAt)
	}
}

func TestSqliteSegmentStoreUpsertReplacesPair(t *testing.T) {
	store := newTestSqliteStore(t)
	ctx := context.Background()

	base := &domain.RouteSegment{
		TripID: 1, FromPlanID: 10, ToPlanID: 11, Mode: "walking",
		DistanceMeters: 1000, DurationSeconds: 800,
		CachedAt: time.Now(), UpdatedAt: time.Now(),
	}
	first, err := store.Put(ctx, base)
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	replacement := *base
	replacement.ID = 0
	replacement.Mode = "driving"
	replacement.DistanceMeters = 1200
	stored, err := store.Put(ctx, &replacement)
	if err != nil {
		t.Fatalf("put replacement: %v", err)
	}
	if stored.ID != first.ID {
		t.Errorf("upsert created a new row: id %d then %d", first.ID, stored.ID)
	}

	got, err := store.Get(ctx, 10, 11)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Mode != "driving" || got.DistanceMeters != 1200 {
		t.Errorf("expected replacement values, got %+v", got)
	}
}

func TestSqliteSegmentStoreDeleteByTrip(t *testing.T) {
	store := newTestSqliteStore(t)
	ctx := context.Background()

	now := time.Now()
	for _, seg := range []*domain.RouteSegment{
		{TripID: 1, FromPlanID: 10, ToPlanID: 11, Mode: "walking", CachedAt: now, UpdatedAt: now},
		{TripID: 1, FromPlanID: 11, ToPlanID: 12, Mode: "walking", CachedAt: now, UpdatedAt: now},
		{TripID: 2, FromPlanID: 20, ToPlanID: 21, Mode: "walking", CachedAt: now, UpdatedAt: now},
	} {
		if _, err := store.Put(ctx, seg); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	if err := store.DeleteByTrip(ctx, 1); err != nil {
		t.Fatalf("delete by trip: %v", err)
	}

	got, err := store.Get(ctx, 10, 11)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("trip 1 segment survived invalidation")
	}

	got, err = store.Get(ctx, 20, 21)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Error("trip 2 segment must survive invalidation")
	}
}
