package db

import (
	"context"

	"github.com/sewasangat/attendance/pkg/core/model"
)

// SewadarStore defines the interface for sewadar database operations
type SewadarStore interface {
	FindSewadarByID(ctx context.Context, id string) (*model.Sewadar, error)
	FindByBadgeNumber(ctx context.Context, badgeNumber string) (*model.Sewadar, error)
	FindTemporaryByIdentity(ctx context.Context, name, guardianName, centerCode string) ([]model.Sewadar, error)
	InsertSewadar(ctx context.Context, s *model.Sewadar) error
	UpdateSewadarByID(ctx context.Context, id string, s *model.Sewadar) error
	ListSewadars(ctx context.Context, filter SewadarFilter) ([]model.Sewadar, error)
	DeleteSewadar(ctx context.Context, id string) error
}

// SewadarFilter narrows sewadar listings. Zero values mean "no constraint".
type SewadarFilter struct {
	AreaCode    string
	CenterCode  string
	BadgeStatus string
	Search      string // substring match on name or badge number
}

// CenterStore defines the interface for area and center operations
type CenterStore interface {
	GetAreas(ctx context.Context) ([]model.Area, error)
	GetCenters(ctx context.Context, areaCode string) ([]model.Center, error)
	FindCenterByCode(ctx context.Context, code string) (*model.Center, error)
	UpsertArea(ctx context.Context, a *model.Area) error
	UpsertCenter(ctx context.Context, c *model.Center) error
}

// EventStore defines the interface for event operations
type EventStore interface {
	GetEvents(ctx context.Context, areaCode string) ([]model.Event, error)
	FindEventByID(ctx context.Context, id string) (*model.Event, error)
	InsertEvent(ctx context.Context, e *model.Event) error
}

// AttendanceStore defines the interface for attendance operations
type AttendanceStore interface {
	InsertAttendance(ctx context.Context, rec *model.AttendanceRecord) error
	GetAttendance(ctx context.Context, filter AttendanceFilter) ([]model.AttendanceRecord, error)
	CountSewadarReferences(ctx context.Context, sewadarID string) (int, error)
}

// AttendanceFilter narrows attendance listings. Zero values mean "no constraint".
type AttendanceFilter struct {
	EventID    string
	CenterCode string
	FromDate   string
	ToDate     string
}

// UserStore defines the interface for login-account operations
type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	InsertUser(ctx context.Context, u *model.User) error
}

// StatsStore defines the aggregation queries behind the dashboard
type StatsStore interface {
	CountSewadarsByBadgeStatus(ctx context.Context, areaCode string) (map[string]int, error)
	CountSewadarsByCenter(ctx context.Context, areaCode string) (map[string]int, error)
	AttendanceTotalsByEvent(ctx context.Context, areaCode string, limit int) ([]EventAttendanceTotal, error)
}

// EventAttendanceTotal is one dashboard row: how many sewadars were recorded
// for an event across all its submissions.
type EventAttendanceTotal struct {
	EventID   string
	EventName string
	EventDate string
	Attended  int
}

// Database defines the full set of store operations the Postgres
// implementation provides. Services depend on the narrow interfaces above,
// never on this directly.
type Database interface {
	SewadarStore
	CenterStore
	EventStore
	AttendanceStore
	UserStore
	StatsStore
}
