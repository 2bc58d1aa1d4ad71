package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

// GetEvents retrieves events for an area ordered by date, newest first
func (d *DB) GetEvents(ctx context.Context, areaCode string) ([]model.Event, error) {
	query := `SELECT id, name, date, center_code, area_code, rrule FROM event`
	var args []any
	if areaCode != "" {
		query += ` WHERE area_code = $1`
		args = append(args, areaCode)
	}
	query += ` ORDER BY date DESC`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &e.CenterCode, &e.AreaCode, &e.RRule); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

// FindEventByID retrieves one event, db.ErrNotFound when absent
func (d *DB) FindEventByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, date, center_code, area_code, rrule FROM event WHERE id = $1
	`, id).Scan(&e.ID, &e.Name, &e.Date, &e.CenterCode, &e.AreaCode, &e.RRule)
	if err != nil {
		if errors.Is(translateErr(err), db.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query event %s: %w", id, err)
	}
	return &e, nil
}

// InsertEvent inserts a new event
func (d *DB) InsertEvent(ctx context.Context, e *model.Event) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO event (id, name, date, center_code, area_code, rrule)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.Name, e.Date, e.CenterCode, e.AreaCode, e.RRule)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", translateErr(err))
	}
	return nil
}
