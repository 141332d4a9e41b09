package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trip-itinerary-service/internal/domain"
)

// SQLite backed store for computed route segments, keyed by
// (from_plan_id, to_plan_id). An upsert replaces the previous row for the
// pair; reads return whatever is stored and leave freshness decisions to
// the caller.
type SqliteSegmentStore struct {
	DB *sql.DB
}

func NewSqliteSegmentStore(db *sql.DB) *SqliteSegmentStore {
	return &SqliteSegmentStore{DB: db}
}

func (s *SqliteSegmentStore) Get(ctx context.Context, fromPlanID, toPlanID int) (*domain.RouteSegment, error) {
	if s.DB == nil {
		return nil, errors.New("segment store: db is nil")
	}

	q := `
	SELECT
		id, trip_id, from_plan_id, to_plan_id, mode,
		origin_lat, origin_lng, dest_lat, dest_lng,
		distance_meters, duration_seconds, distance_text, duration_text,
		encoded_path, steps_json, cached_at, updated_at
	FROM route_segments
	WHERE from_plan_id = ? AND to_plan_id = ?;
	`

	var (
		seg       domain.RouteSegment
		stepsJSON string
		cachedAt  int64
		updatedAt int64
	)
	err := s.DB.QueryRowContext(ctx, q, fromPlanID, toPlanID).Scan(
		&seg.ID, &seg.TripID, &seg.FromPlanID, &seg.ToPlanID, &seg.Mode,
		&seg.Origin.Lat, &seg.Origin.Lng, &seg.Destination.Lat, &seg.Destination.Lng,
		&seg.DistanceMeters, &seg.DurationSeconds, &seg.DistanceText, &seg.DurationText,
		&seg.EncodedPath, &stepsJSON, &cachedAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get segment: query route_segments table: %w", err)
	}

	if stepsJSON != "" {
		if err := json.Unmarshal([]byte(stepsJSON), &seg.Steps); err != nil {
			return nil, fmt.Errorf("get segment: decode steps: %w", err)
		}
	}
	seg.CachedAt = time.Unix(cachedAt, 0).UTC()
	seg.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return &seg, nil
}

func (s *SqliteSegmentStore) Put(ctx context.Context, seg *domain.RouteSegment) (*domain.RouteSegment, error) {
	if s.DB == nil {
		return nil, errors.New("segment store: db is nil")
	}
	if seg == nil {
		return nil, errors.New("put segment: segment must be non-nil")
	}

	stepsJSON, err := json.Marshal(seg.Steps)
	if err != nil {
		return nil, fmt.Errorf("put segment: encode steps: %w", err)
	}

	q := `
	INSERT INTO route_segments (
		trip_id, from_plan_id, to_plan_id, mode,
		origin_lat, origin_lng, dest_lat, dest_lng,
		distance_meters, duration_seconds, distance_text, duration_text,
		encoded_path, steps_json, cached_at, updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (from_plan_id, to_plan_id) DO UPDATE SET
		trip_id = excluded.trip_id,
		mode = excluded.mode,
		origin_lat = excluded.origin_lat,
		origin_lng = excluded.origin_lng,
		dest_lat = excluded.dest_lat,
		dest_lng = excluded.dest_lng,
		distance_meters = excluded.distance_meters,
		duration_seconds = excluded.duration_seconds,
		distance_text = excluded.distance_text,
		duration_text = excluded.duration_text,
		encoded_path = excluded.encoded_path,
		steps_json = excluded.steps_json,
		cached_at = excluded.cached_at,
		updated_at = excluded.updated_at
	RETURNING id;
	`

	stored := *seg
	err = s.DB.QueryRowContext(ctx, q,
		seg.TripID, seg.FromPlanID, seg.ToPlanID, seg.Mode,
		seg.Origin.Lat, seg.Origin.Lng, seg.Destination.Lat, seg.Destination.Lng,
		seg.DistanceMeters, seg.DurationSeconds, seg.DistanceText, seg.DurationText,
		seg.EncodedPath, string(stepsJSON), seg.CachedAt.Unix(), seg.UpdatedAt.Unix(),
	).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("put segment %d->%d: %w", seg.FromPlanID, seg.ToPlanID, err)
	}

	return &stored, nil
}

func (s *SqliteSegmentStore) DeleteByTrip(ctx context.Context, tripID int) error {
	if s.DB == nil {
		return errors.New("segment store: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM route_segments WHERE trip_id = ?;`, tripID); err != nil {
		return fmt.Errorf("delete segments for trip %d: %w", tripID, err)
	}
	return nil
}
