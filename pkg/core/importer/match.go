package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

// Op classifies what the reconciler should do with a row.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
)

// Decision tags an ImportRow with the operation it resolved to. ExistingID
// is set only for OpUpdate and names the persisted record to overwrite.
type Decision struct {
	Op         Op
	Row        *ImportRow
	ExistingID string
}

// MatchStore defines the lookup operations the matching engine needs
type MatchStore interface {
	FindByBadgeNumber(ctx context.Context, badgeNumber string) (*model.Sewadar, error)
	FindTemporaryByIdentity(ctx context.Context, name, guardianName, centerCode string) ([]model.Sewadar, error)
}

// Match decides CREATE vs UPDATE for a normalized row.
//
// Primary mode: exact match on badge number wins. Secondary mode, for rows
// whose incoming status is PERMANENT with no badge match: if exactly one
// TEMPORARY record shares the (name, guardian name, center code) triple, the
// row updates that record — a temporary badge being promoted to permanent
// keeps its history instead of duplicating. Zero or multiple candidates fall
// through to CREATE; an ambiguous triple must never overwrite an unrelated
// record.
func Match(ctx context.Context, store MatchStore, row *ImportRow) (Decision, error) {
	existing, err := store.FindByBadgeNumber(ctx, row.Sewadar.BadgeNumber)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return Decision{}, fmt.Errorf("failed to look up badge %s: %w", row.Sewadar.BadgeNumber, err)
	}
	if existing != nil {
		return Decision{Op: OpUpdate, Row: row, ExistingID: existing.ID}, nil
	}

	if row.Sewadar.BadgeStatus == model.BadgeStatusPermanent {
		candidates, err := store.FindTemporaryByIdentity(ctx,
			row.Sewadar.Name, row.Sewadar.GuardianName, row.Sewadar.CenterCode)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return Decision{}, fmt.Errorf("failed to look up temporary records for %s: %w", row.Sewadar.Name, err)
		}
		if len(candidates) == 1 {
			return Decision{Op: OpUpdate, Row: row, ExistingID: candidates[0].ID}, nil
		}
	}

	return Decision{Op: OpCreate, Row: row}, nil
}
