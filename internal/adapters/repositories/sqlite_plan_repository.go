package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trip-itinerary-service/internal/domain"
)

// SQLite-backed implementation of the PlanRepository port.
type SqlitePlanRepository struct{ DB *sql.DB }

func NewSqlitePlanRepository(db *sql.DB) *SqlitePlanRepository {
	return &SqlitePlanRepository{DB: db}
}

// Return a trip's plans ordered by day, then start time, then id.
func (s *SqlitePlanRepository) ListByTrip(ctx context.Context, tripID int) ([]*domain.Plan, error) {
	if s.DB == nil {
		return nil, errors.New("plan repository: DB is nil")
	}

	query := `
	SELECT
		plan_id,
		trip_id,
		day,
		place,
		lat,
		lng,
		start_time,
		end_time
	FROM plans
	WHERE trip_id = ?
	ORDER BY day, start_time, plan_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("list plans: query plans table: %w", err)
	}
	defer rows.Close()

	plans := make([]*domain.Plan, 0, 16)
	for rows.Next() {
		var p domain.Plan
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&p.PlanID, &p.TripID, &p.Day, &p.Place, &lat, &lng, &p.StartTime, &p.EndTime); err != nil {
			return nil, fmt.Errorf("list plans: scan row: %w", err)
		}
		// A plan has either both coordinates or neither.
		if lat.Valid && lng.Valid {
			p.Lat = &lat.Float64
			p.Lng = &lng.Float64
		}
		plans = append(plans, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return plans, nil
}

// Persist the day numbers of a computed distribution.
func (s *SqlitePlanRepository) UpdateDayAssignments(ctx context.Context, days []domain.ItineraryDay) error {
	if s.DB == nil {
		return errors.New("plan repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update day assignments: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE plans SET day = ? WHERE plan_id = ?;`)
	if err != nil {
		return fmt.Errorf("update day assignments: prepare: %w", err)
	}
	defer stmt.Close()

	for _, d := range days {
		for _, p := range d.Plans {
			if _, err := stmt.ExecContext(ctx, d.Day, p.PlanID); err != nil {
				return fmt.Errorf("update day assignments: plan_id=%d: %w", p.PlanID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update day assignments: commit tx: %w", err)
	}

	return nil
}
