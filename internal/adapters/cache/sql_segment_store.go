package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/platform/obs"
)

// SQLSegmentStore is a Postgres-backed store for computed route segments.
// Same contract as the SQLite store; the schema uses a BIGSERIAL id and an
// ON CONFLICT upsert on (from_plan_id, to_plan_id).
type SQLSegmentStore struct {
	DB *sql.DB
}

func NewSQLSegmentStore(db *sql.DB) *SQLSegmentStore {
	return &SQLSegmentStore{DB: db}
}

func (s *SQLSegmentStore) Get(ctx context.Context, fromPlanID, toPlanID int) (_ *domain.RouteSegment, err error) {
	defer obs.Time(ctx, "segment.store.Get")(&err)

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
	WHERE from_plan_id = $1 AND to_plan_id = $2;
	`

	var (
		seg       domain.RouteSegment
		stepsJSON string
		cachedAt  int64
		updatedAt int64
	)
	err = s.DB.QueryRowContext(ctx, q, fromPlanID, toPlanID).Scan(
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

func (s *SQLSegmentStore) Put(ctx context.Context, seg *domain.RouteSegment) (_ *domain.RouteSegment, err error) {
	defer obs.Time(ctx, "segment.store.Put")(&err)

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
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (from_plan_id, to_plan_id) DO UPDATE SET
		trip_id = EXCLUDED.trip_id,
		mode = EXCLUDED.mode,
		origin_lat = EXCLUDED.origin_lat,
		origin_lng = EXCLUDED.origin_lng,
		dest_lat = EXCLUDED.dest_lat,
		dest_lng = EXCLUDED.dest_lng,
		distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		distance_text = EXCLUDED.distance_text,
		duration_text = EXCLUDED.duration_text,
		encoded_path = EXCLUDED.encoded_path,
		steps_json = EXCLUDED.steps_json,
		cached_at = EXCLUDED.cached_at,
		updated_at = EXCLUDED.updated_at
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

func (s *SQLSegmentStore) DeleteByTrip(ctx context.Context, tripID int) (err error) {
	defer obs.Time(ctx, "segment.store.DeleteByTrip")(&err)

	if s.DB == nil {
		return errors.New("segment store: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM route_segments WHERE trip_id = $1;`, tripID); err != nil {
		return fmt.Errorf("delete segments for trip %d: %w", tripID, err)
	}
	return nil
}
