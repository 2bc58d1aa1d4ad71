package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

// GetAreas retrieves all areas ordered by code
func (d *DB) GetAreas(ctx context.Context) ([]model.Area, error) {
	rows, err := d.pool.Query(ctx, `SELECT code, name, zone FROM area ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query areas: %w", err)
	}
	defer rows.Close()

	var areas []model.Area
	for rows.Next() {
		var a model.Area
		if err := rows.Scan(&a.Code, &a.Name, &a.Zone); err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating areas: %w", err)
	}
	return areas, nil
}

// GetCenters retrieves centers, optionally restricted to one area
func (d *DB) GetCenters(ctx context.Context, areaCode string) ([]model.Center, error) {
	query := `SELECT code, name, area_code FROM center`
	var args []any
	if areaCode != "" {
		query += ` WHERE area_code = $1`
		args = append(args, areaCode)
	}
	query += ` ORDER BY code`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query centers: %w", err)
	}
	defer rows.Close()

	var centers []model.Center
	for rows.Next() {
		var c model.Center
		if err := rows.Scan(&c.Code, &c.Name, &c.AreaCode); err != nil {
			return nil, fmt.Errorf("failed to scan center: %w", err)
		}
		centers = append(centers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating centers: %w", err)
	}
	return centers, nil
}

// FindCenterByCode retrieves one center, db.ErrNotFound when absent
func (d *DB) FindCenterByCode(ctx context.Context, code string) (*model.Center, error) {
	var c model.Center
	err := d.pool.QueryRow(ctx, `SELECT code, name, area_code FROM center WHERE code = $1`, code).
		Scan(&c.Code, &c.Name, &c.AreaCode)
	if err != nil {
		if errors.Is(translateErr(err), db.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query center %s: %w", code, err)
	}
	return &c, nil
}

// UpsertArea inserts or updates an area by code
func (d *DB) UpsertArea(ctx context.Context, a *model.Area) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO area (code, name, zone) VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, zone = EXCLUDED.zone
	`, a.Code, a.Name, a.Zone)
	if err != nil {
		return fmt.Errorf("failed to upsert area %s: %w", a.Code, translateErr(err))
	}
	return nil
}

// UpsertCenter inserts or updates a center by code
func (d *DB) UpsertCenter(ctx context.Context, c *model.Center) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO center (code, name, area_code) VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, area_code = EXCLUDED.area_code
	`, c.Code, c.Name, c.AreaCode)
	if err != nil {
		return fmt.Errorf("failed to upsert center %s: %w", c.Code, translateErr(err))
	}
	return nil
}
