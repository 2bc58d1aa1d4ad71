package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

// InsertAttendance inserts an attendance submission and its sewadar links in
// one transaction so a partially written submission is never visible.
func (d *DB) InsertAttendance(ctx context.Context, rec *model.AttendanceRecord) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	submittedAt, err := time.Parse(time.RFC3339, rec.SubmittedAt)
	if err != nil {
		submittedAt = time.Now()
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO attendance (id, event_id, event_date, center_code, nominal_roll_url, submitted_by, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.ID, rec.EventID, rec.EventDate, rec.CenterCode, rec.NominalRollURL, rec.SubmittedBy, submittedAt)
	if err != nil {
		return fmt.Errorf("failed to insert attendance: %w", translateErr(err))
	}

	for _, sewadarID := range rec.SewadarIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO attendance_sewadar (attendance_id, sewadar_id) VALUES ($1, $2)
		`, rec.ID, sewadarID)
		if err != nil {
			return fmt.Errorf("failed to link sewadar %s: %w", sewadarID, translateErr(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit attendance: %w", err)
	}
	return nil
}

// GetAttendance retrieves attendance submissions matching the filter,
// including their sewadar ID lists.
func (d *DB) GetAttendance(ctx context.Context, filter db.AttendanceFilter) ([]model.AttendanceRecord, error) {
	query := `
		SELECT id, event_id, event_date, center_code, nominal_roll_url, submitted_by, submitted_at
		FROM attendance WHERE 1=1`
	var args []any

	addArg := func(clause string, value string) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}
	if filter.EventID != "" {
		addArg(" AND event_id = $%d", filter.EventID)
	}
	if filter.CenterCode != "" {
		addArg(" AND center_code = $%d", filter.CenterCode)
	}
	if filter.FromDate != "" {
		addArg(" AND event_date >= $%d", filter.FromDate)
	}
	if filter.ToDate != "" {
		addArg(" AND event_date <= $%d", filter.ToDate)
	}
	query += " ORDER BY event_date DESC, submitted_at DESC"

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		var submittedAt time.Time
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.EventDate, &rec.CenterCode,
			&rec.NominalRollURL, &rec.SubmittedBy, &submittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		rec.SubmittedAt = submittedAt.Format(time.RFC3339)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}

	for i := range records {
		ids, err := d.attendanceSewadarIDs(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].SewadarIDs = ids
	}
	return records, nil
}

func (d *DB) attendanceSewadarIDs(ctx context.Context, attendanceID string) ([]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT sewadar_id FROM attendance_sewadar WHERE attendance_id = $1 ORDER BY sewadar_id
	`, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance sewadars: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan sewadar link: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sewadar links: %w", err)
	}
	return ids, nil
}

// CountSewadarReferences reports how many attendance submissions reference a
// sewadar; the delete handler refuses removal while this is non-zero.
func (d *DB) CountSewadarReferences(ctx context.Context, sewadarID string) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance_sewadar WHERE sewadar_id = $1
	`, sewadarID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sewadar references: %w", err)
	}
	return count, nil
}
