package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the route_segments schema on Postgres. Plans stay in the
// local SQLite store; only the segment cache can be pointed at Postgres.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	createSegmentsQuery := `
	CREATE TABLE IF NOT EXISTS route_segments (
		id BIGSERIAL PRIMARY KEY,
		trip_id INTEGER NOT NULL,
		from_plan_id INTEGER NOT NULL,
		to_plan_id INTEGER NOT NULL,
		mode TEXT NOT NULL,
		origin_lat DOUBLE PRECISION NOT NULL,
		origin_lng DOUBLE PRECISION NOT NULL,
		dest_lat DOUBLE PRECISION NOT NULL,
		dest_lng DOUBLE PRECISION NOT NULL,
		distance_meters DOUBLE PRECISION NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		distance_text TEXT NOT NULL DEFAULT '',
		duration_text TEXT NOT NULL DEFAULT '',
		encoded_path TEXT NOT NULL DEFAULT '',
		steps_json TEXT NOT NULL DEFAULT '',
		cached_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL,
		UNIQUE (from_plan_id, to_plan_id)
	);
	`

	createSegmentIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_segments_trip
	ON route_segments(trip_id);
	`

	for i, stmt := range []string{createSegmentsQuery, createSegmentIndexQuery} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	return nil
}
