package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

// SubmitAttendanceInput is one attendance submission: which sewadars
// attended an event occurrence at a center, plus the scanned nominal roll.
type SubmitAttendanceInput struct {
	EventID        string
	EventDate      string // YYYY-MM-DD; defaults to the event's own date
	CenterCode     string
	SewadarIDs     []string
	NominalRollURL string
}

// SubmitAttendanceStore defines the database operations needed
type SubmitAttendanceStore interface {
	FindEventByID(ctx context.Context, id string) (*model.Event, error)
	FindSewadarByID(ctx context.Context, id string) (*model.Sewadar, error)
	InsertAttendance(ctx context.Context, rec *model.AttendanceRecord) error
}

// ErrCenterScope is returned when a coordinator submits for a center other
// than their own.
var ErrCenterScope = errors.New("submission outside the user's center")

// SubmitAttendance validates and stores one attendance submission on behalf
// of the acting user. Coordinators may only submit for their own center.
func SubmitAttendance(
	ctx context.Context,
	store SubmitAttendanceStore,
	logger *zap.Logger,
	actor *model.User,
	input SubmitAttendanceInput,
) (*model.AttendanceRecord, error) {
	if len(input.SewadarIDs) == 0 {
		return nil, fmt.Errorf("attendance submission has no sewadars")
	}
	if actor.Role == model.RoleCoordinator && input.CenterCode != actor.CenterCode {
		return nil, ErrCenterScope
	}

	event, err := store.FindEventByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("unknown event %s", input.EventID)
		}
		return nil, fmt.Errorf("failed to look up event: %w", err)
	}

	date := input.EventDate
	if date == "" {
		date = event.Date
	}

	// Every listed sewadar must exist; a typo'd ID fails the whole
	// submission rather than silently recording a ghost.
	for _, id := range input.SewadarIDs {
		if _, err := store.FindSewadarByID(ctx, id); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, fmt.Errorf("unknown sewadar %s", id)
			}
			return nil, fmt.Errorf("failed to look up sewadar %s: %w", id, err)
		}
	}

	rec := &model.AttendanceRecord{
		ID:             uuid.NewString(),
		EventID:        event.ID,
		EventDate:      date,
		CenterCode:     input.CenterCode,
		SewadarIDs:     input.SewadarIDs,
		NominalRollURL: input.NominalRollURL,
		SubmittedBy:    actor.Username,
		SubmittedAt:    time.Now().Format(time.RFC3339),
	}

	if err := store.InsertAttendance(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store attendance: %w", err)
	}

	logger.Info("Attendance submitted",
		zap.String("eventId", event.ID),
		zap.String("centerCode", input.CenterCode),
		zap.Int("sewadars", len(input.SewadarIDs)))

	return rec, nil
}
