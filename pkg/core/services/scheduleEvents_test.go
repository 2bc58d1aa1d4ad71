package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewasangat/attendance/pkg/core/model"
)

// mockEventStore implements EventOccurrenceStore
type mockEventStore struct {
	events []model.Event
}

func (m *mockEventStore) GetEvents(ctx context.Context, areaCode string) ([]model.Event, error) {
	return m.events, nil
}

func window(t *testing.T, from, to string) (time.Time, time.Time) {
	t.Helper()
	f, err := time.Parse("2006-01-02", from)
	require.NoError(t, err)
	u, err := time.Parse("2006-01-02", to)
	require.NoError(t, err)
	return f, u
}

func TestExpandEvent_OneOff(t *testing.T) {
	event := model.Event{ID: "ev-1", Date: "2026-09-15"}

	from, to := window(t, "2026-09-01", "2026-09-30")
	dates, err := ExpandEvent(event, from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-09-15"}, dates)
}

func TestExpandEvent_OneOffOutsideWindow(t *testing.T) {
	event := model.Event{ID: "ev-1", Date: "2026-10-15"}

	from, to := window(t, "2026-09-01", "2026-09-30")
	dates, err := ExpandEvent(event, from, to)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestExpandEvent_WeeklyRecurrence(t *testing.T) {
	event := model.Event{
		ID:    "ev-1",
		Date:  "2026-09-06", // a Sunday
		RRule: "FREQ=WEEKLY;BYDAY=SU",
	}

	from, to := window(t, "2026-09-01", "2026-09-30")
	dates, err := ExpandEvent(event, from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-09-06", "2026-09-13", "2026-09-20", "2026-09-27"}, dates)
}

func TestExpandEvent_InvalidRRule(t *testing.T) {
	event := model.Event{ID: "ev-1", Date: "2026-09-06", RRule: "FREQ=NEVER"}

	from, to := window(t, "2026-09-01", "2026-09-30")
	_, err := ExpandEvent(event, from, to)
	assert.Error(t, err)
}

func TestListEventOccurrences_SortedAcrossEvents(t *testing.T) {
	store := &mockEventStore{events: []model.Event{
		{ID: "ev-2", Name: "Special Bhandara", Date: "2026-09-13", AreaCode: "HI"},
		{ID: "ev-1", Name: "Sunday Satsang", Date: "2026-09-06", RRule: "FREQ=WEEKLY;BYDAY=SU;COUNT=3", AreaCode: "HI"},
	}}

	from, to := window(t, "2026-09-01", "2026-09-30")
	occ, err := ListEventOccurrences(context.Background(), store, "HI", from, to)
	require.NoError(t, err)

	var got []string
	for _, o := range occ {
		got = append(got, o.Date+" "+o.Name)
	}
	assert.Equal(t, []string{
		"2026-09-06 Sunday Satsang",
		"2026-09-13 Special Bhandara",
		"2026-09-13 Sunday Satsang",
		"2026-09-20 Sunday Satsang",
	}, got)
}
