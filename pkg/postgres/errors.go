package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sewasangat/attendance/pkg/db"
)

// translateErr maps pgx errors onto the store's sentinel errors so callers
// can branch with errors.Is instead of inspecting SQLSTATE codes.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return db.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return db.ErrDuplicate
		case "23503": // foreign_key_violation
			return db.ErrReferenced
		}
	}
	return err
}
