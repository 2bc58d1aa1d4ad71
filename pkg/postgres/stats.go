package postgres

import (
	"context"
	"fmt"

	"github.com/sewasangat/attendance/pkg/db"
)

// CountSewadarsByBadgeStatus aggregates sewadar counts per badge status,
// optionally restricted to one area.
func (d *DB) CountSewadarsByBadgeStatus(ctx context.Context, areaCode string) (map[string]int, error) {
	return d.countGrouped(ctx, "badge_status", areaCode)
}

// CountSewadarsByCenter aggregates sewadar counts per center code,
// optionally restricted to one area.
func (d *DB) CountSewadarsByCenter(ctx context.Context, areaCode string) (map[string]int, error) {
	return d.countGrouped(ctx, "center_code", areaCode)
}

func (d *DB) countGrouped(ctx context.Context, column, areaCode string) (map[string]int, error) {
	// column is one of two fixed identifiers above, never user input
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM sewadar`, column)
	var args []any
	if areaCode != "" {
		query += ` WHERE area_code = $1`
		args = append(args, areaCode)
	}
	query += fmt.Sprintf(` GROUP BY %s`, column)

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sewadars by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		counts[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s counts: %w", column, err)
	}
	return counts, nil
}

// AttendanceTotalsByEvent aggregates attended-sewadar totals for the most
// recent events of an area.
func (d *DB) AttendanceTotalsByEvent(ctx context.Context, areaCode string, limit int) ([]db.EventAttendanceTotal, error) {
	query := `
		SELECT e.id, e.name, e.date, COUNT(asd.sewadar_id)
		FROM event e
		LEFT JOIN attendance a ON a.event_id = e.id
		LEFT JOIN attendance_sewadar asd ON asd.attendance_id = a.id`
	var args []any
	if areaCode != "" {
		query += ` WHERE e.area_code = $1`
		args = append(args, areaCode)
	}
	args = append(args, limit)
	query += fmt.Sprintf(`
		GROUP BY e.id, e.name, e.date
		ORDER BY e.date DESC
		LIMIT $%d`, len(args))

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance totals: %w", err)
	}
	defer rows.Close()

	var totals []db.EventAttendanceTotal
	for rows.Next() {
		var t db.EventAttendanceTotal
		if err := rows.Scan(&t.EventID, &t.EventName, &t.EventDate, &t.Attended); err != nil {
			return nil, fmt.Errorf("failed to scan attendance total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance totals: %w", err)
	}
	return totals, nil
}
