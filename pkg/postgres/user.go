package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

// FindUserByUsername retrieves a login account, db.ErrNotFound when absent
func (d *DB) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := d.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, role, area_code, center_code
		FROM app_user WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.AreaCode, &u.CenterCode)
	if err != nil {
		if errors.Is(translateErr(err), db.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user %s: %w", username, err)
	}
	return &u, nil
}

// InsertUser inserts a new login account
func (d *DB) InsertUser(ctx context.Context, u *model.User) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO app_user (id, username, password_hash, role, area_code, center_code)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Username, u.PasswordHash, u.Role, u.AreaCode, u.CenterCode)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", translateErr(err))
	}
	return nil
}
