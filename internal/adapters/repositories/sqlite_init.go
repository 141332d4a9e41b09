package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS plans (
		plan_id INTEGER PRIMARY KEY,
		trip_id INTEGER NOT NULL,
		day INTEGER NOT NULL DEFAULT 1,
		place TEXT NOT NULL,
		lat REAL,
		lng REAL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT ''
	);
	`

	createSegmentsQuery := `
	CREATE TABLE IF NOT EXISTS route_segments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trip_id INTEGER NOT NULL,
		from_plan_id INTEGER NOT NULL,
		to_plan_id INTEGER NOT NULL,
		mode TEXT NOT NULL,
		origin_lat REAL NOT NULL,
		origin_lng REAL NOT NULL,
		dest_lat REAL NOT NULL,
		dest_lng REAL NOT NULL,
		distance_meters REAL NOT NULL,
		duration_seconds REAL NOT NULL,
		distance_text TEXT NOT NULL DEFAULT '',
		duration_text TEXT NOT NULL DEFAULT '',
		encoded_path TEXT NOT NULL DEFAULT '',
		steps_json TEXT NOT NULL DEFAULT '',
		cached_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE (from_plan_id, to_plan_id)
	);
	`

	createPlanIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_plans_trip_day
	ON plans(trip_id, day, start_time);
	`

	createSegmentIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_segments_trip
	ON route_segments(trip_id);
	`

	statements := []string{
		createPlansQuery,
		createSegmentsQuery,
		createPlanIndexQuery,
		createSegmentIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PlanSeed struct {
	PlanID    int      `json:"plan_id"`
	TripID    int      `json:"trip_id"`
	Place     string   `json:"place"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// Populate the database with plan data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed plans: read %q: %w", jsonPath, err)
	}

	var data []PlanSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed plans: parse json: %w", err)
	}

	rows := make([]PlanSeed, 0, len(data))
	for i, item := range data {
		if item.PlanID <= 0 {
			return fmt.Errorf("seed plans: invalid plan_id at index %d: %d", i+1, item.PlanID)
		}
		if item.TripID <= 0 {
			return fmt.Errorf("seed plans: invalid trip_id at index %d: %d", i+1, item.TripID)
		}
		if (item.Lat == nil) != (item.Lng == nil) {
			return fmt.Errorf("seed plans: plan_id=%d has only one coordinate component", item.PlanID)
		}

		place := strings.TrimSpace(item.Place)
		if place == "" {
			return fmt.Errorf("seed plans: item at index %d: place cannot be empty", i+1)
		}
		item.Place = place
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed plans: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO plans (
		plan_id,
		trip_id,
		place,
		lat,
		lng,
		start_time,
		end_time
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed plans: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		if _, err := stmt.Exec(p.PlanID, p.TripID, p.Place, p.Lat, p.Lng, p.StartTime, p.EndTime); err != nil {
			return fmt.Errorf("seed plans: insert plan_id=%d: %w", p.PlanID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed plans: commit tx: %w", err)
	}

	return nil
}
