package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/db"
)

// DashboardStats is the aggregate view shown on the admin/coordinator
// landing page.
type DashboardStats struct {
	TotalSewadars int                        `json:"totalSewadars"`
	ByBadgeStatus map[string]int             `json:"byBadgeStatus"`
	ByCenter      map[string]int             `json:"byCenter"`
	RecentEvents  []db.EventAttendanceTotal  `json:"recentEvents"`
}

// DashboardStatsStore defines the aggregation queries needed
type DashboardStatsStore interface {
	CountSewadarsByBadgeStatus(ctx context.Context, areaCode string) (map[string]int, error)
	CountSewadarsByCenter(ctx context.Context, areaCode string) (map[string]int, error)
	AttendanceTotalsByEvent(ctx context.Context, areaCode string, limit int) ([]db.EventAttendanceTotal, error)
}

const recentEventLimit = 10

// GetDashboardStats assembles the dashboard aggregates for one area
// (or the whole organization when areaCode is empty).
func GetDashboardStats(ctx context.Context, store DashboardStatsStore, logger *zap.Logger, areaCode string) (*DashboardStats, error) {
	byStatus, err := store.CountSewadarsByBadgeStatus(ctx, areaCode)
	if err != nil {
		return nil, fmt.Errorf("failed to count sewadars by badge status: %w", err)
	}

	byCenter, err := store.CountSewadarsByCenter(ctx, areaCode)
	if err != nil {
		return nil, fmt.Errorf("failed to count sewadars by center: %w", err)
	}

	recent, err := store.AttendanceTotalsByEvent(ctx, areaCode, recentEventLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance totals: %w", err)
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	logger.Debug("Assembled dashboard stats",
		zap.String("areaCode", areaCode),
		zap.Int("totalSewadars", total))

	return &DashboardStats{
		TotalSewadars: total,
		ByBadgeStatus: byStatus,
		ByCenter:      byCenter,
		RecentEvents:  recent,
	}, nil
}
