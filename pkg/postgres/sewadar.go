package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

const sewadarColumns = `id, badge_number, name, guardian_name, dob, gender, badge_status,
	zone, area_name, area_code, center_name, center_code, department, contact_number, emergency_contact`

func scanSewadar(row pgx.Row) (*model.Sewadar, error) {
	var s model.Sewadar
	err := row.Scan(&s.ID, &s.BadgeNumber, &s.Name, &s.GuardianName, &s.DOB, &s.Gender,
		&s.BadgeStatus, &s.Zone, &s.AreaName, &s.AreaCode, &s.CenterName, &s.CenterCode,
		&s.Department, &s.ContactNumber, &s.EmergencyContact)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSewadarByID retrieves a sewadar by internal ID, db.ErrNotFound when absent
func (d *DB) FindSewadarByID(ctx context.Context, id string) (*model.Sewadar, error) {
	s, err := scanSewadar(d.pool.QueryRow(ctx, `
		SELECT `+sewadarColumns+`
		FROM sewadar
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(translateErr(err), db.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query sewadar %s: %w", id, err)
	}
	return s, nil
}

// FindByBadgeNumber retrieves a sewadar by badge number, db.ErrNotFound when absent
func (d *DB) FindByBadgeNumber(ctx context.Context, badgeNumber string) (*model.Sewadar, error) {
	s, err := scanSewadar(d.pool.QueryRow(ctx, `
		SELECT `+sewadarColumns+`
		FROM sewadar
		WHERE badge_number = $1
	`, badgeNumber))
	if err != nil {
		if errors.Is(translateErr(err), db.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query sewadar by badge: %w", err)
	}
	return s, nil
}

// FindTemporaryByIdentity retrieves TEMPORARY sewadars matching the
// (name, guardian name, center code) triple used by promotion matching.
func (d *DB) FindTemporaryByIdentity(ctx context.Context, name, guardianName, centerCode string) ([]model.Sewadar, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+sewadarColumns+`
		FROM sewadar
		WHERE badge_status = $1 AND name = $2 AND guardian_name = $3 AND center_code = $4
	`, model.BadgeStatusTemporary, name, guardianName, centerCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query temporary sewadars: %w", err)
	}
	defer rows.Close()

	return collectSewadars(rows)
}

// InsertSewadar inserts a new sewadar record
func (d *DB) InsertSewadar(ctx context.Context, s *model.Sewadar) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO sewadar (`+sewadarColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, s.ID, s.BadgeNumber, s.Name, s.GuardianName, s.DOB, s.Gender, s.BadgeStatus,
		s.Zone, s.AreaName, s.AreaCode, s.CenterName, s.CenterCode, s.Department,
		s.ContactNumber, s.EmergencyContact)
	if err != nil {
		return fmt.Errorf("failed to insert sewadar: %w", translateErr(err))
	}
	return nil
}

// UpdateSewadarByID overwrites all mutable fields of an existing record
func (d *DB) UpdateSewadarByID(ctx context.Context, id string, s *model.Sewadar) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE sewadar
		SET badge_number = $2, name = $3, guardian_name = $4, dob = $5, gender = $6,
			badge_status = $7, zone = $8, area_name = $9, area_code = $10,
			center_name = $11, center_code = $12, department = $13,
			contact_number = $14, emergency_contact = $15
		WHERE id = $1
	`, id, s.BadgeNumber, s.Name, s.GuardianName, s.DOB, s.Gender, s.BadgeStatus,
		s.Zone, s.AreaName, s.AreaCode, s.CenterName, s.CenterCode, s.Department,
		s.ContactNumber, s.EmergencyContact)
	if err != nil {
		return fmt.Errorf("failed to update sewadar %s: %w", id, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ListSewadars retrieves sewadars matching the filter, ordered by badge number
func (d *DB) ListSewadars(ctx context.Context, filter db.SewadarFilter) ([]model.Sewadar, error) {
	query := `SELECT ` + sewadarColumns + ` FROM sewadar WHERE 1=1`
	var args []any

	addArg := func(clause string, value string) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.AreaCode != "" {
		addArg(" AND area_code = $%d", filter.AreaCode)
	}
	if filter.CenterCode != "" {
		addArg(" AND center_code = $%d", filter.CenterCode)
	}
	if filter.BadgeStatus != "" {
		addArg(" AND badge_status = $%d", filter.BadgeStatus)
	}
	if filter.Search != "" {
		addArg(" AND (name ILIKE '%%' || $%d || '%%' OR badge_number ILIKE '%%' || $%[1]d || '%%')", filter.Search)
	}
	query += " ORDER BY badge_number"

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sewadars: %w", err)
	}
	defer rows.Close()

	return collectSewadars(rows)
}

// DeleteSewadar removes a sewadar. Records referenced by attendance rows are
// protected by a foreign key and surface as db.ErrReferenced.
func (d *DB) DeleteSewadar(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM sewadar WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sewadar %s: %w", id, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func collectSewadars(rows pgx.Rows) ([]model.Sewadar, error) {
	var sewadars []model.Sewadar
	for rows.Next() {
		s, err := scanSewadar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sewadar: %w", err)
		}
		sewadars = append(sewadars, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sewadars: %w", err)
	}
	return sewadars, nil
}
