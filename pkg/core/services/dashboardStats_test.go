package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/db"
)

// mockStatsStore implements DashboardStatsStore
type mockStatsStore struct {
	byStatus map[string]int
	byCenter map[string]int
	totals   []db.EventAttendanceTotal
	err      error
}

func (m *mockStatsStore) CountSewadarsByBadgeStatus(ctx context.Context, areaCode string) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byStatus, nil
}

func (m *mockStatsStore) CountSewadarsByCenter(ctx context.Context, areaCode string) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byCenter, nil
}

func (m *mockStatsStore) AttendanceTotalsByEvent(ctx context.Context, areaCode string, limit int) ([]db.EventAttendanceTotal, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.totals, nil
}

func TestGetDashboardStats(t *testing.T) {
	store := &mockStatsStore{
		byStatus: map[string]int{"PERMANENT": 40, "TEMPORARY": 25, "OPEN": 5},
		byCenter: map[string]int{"1234": 50, "5678": 20},
		totals: []db.EventAttendanceTotal{
			{EventID: "ev-1", EventName: "Sunday Satsang", EventDate: "2026-08-30", Attended: 34},
		},
	}

	stats, err := GetDashboardStats(context.Background(), store, zap.NewNop(), "HI")
	require.NoError(t, err)

	assert.Equal(t, 70, stats.TotalSewadars)
	assert.Equal(t, 40, stats.ByBadgeStatus["PERMANENT"])
	assert.Equal(t, 20, stats.ByCenter["5678"])
	require.Len(t, stats.RecentEvents, 1)
	assert.Equal(t, 34, stats.RecentEvents[0].Attended)
}

func TestGetDashboardStats_StoreFailure(t *testing.T) {
	store := &mockStatsStore{err: errors.New("connection refused")}

	_, err := GetDashboardStats(context.Background(), store, zap.NewNop(), "HI")
	assert.Error(t, err)
}
