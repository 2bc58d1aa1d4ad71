package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/sewasangat/attendance/pkg/core/model"
)

// EventOccurrence is one concrete date an event happens on within a window.
type EventOccurrence struct {
	EventID    string `json:"eventId"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	CenterCode string `json:"centerCode"`
	AreaCode   string `json:"areaCode"`
}

// EventOccurrenceStore defines the database operations needed
type EventOccurrenceStore interface {
	GetEvents(ctx context.Context, areaCode string) ([]model.Event, error)
}

const eventDateLayout = "2006-01-02"

// ExpandEvent returns the dates an event occurs on in [from, to]. Events
// without a recurrence rule occur exactly once, on their own date.
func ExpandEvent(event model.Event, from, to time.Time) ([]string, error) {
	start, err := time.Parse(eventDateLayout, event.Date)
	if err != nil {
		return nil, fmt.Errorf("event %s has invalid date %q: %w", event.ID, event.Date, err)
	}

	if event.RRule == "" {
		if start.Before(from) || start.After(to) {
			return nil, nil
		}
		return []string{event.Date}, nil
	}

	rule, err := rrule.StrToRRule(event.RRule)
	if err != nil {
		return nil, fmt.Errorf("event %s has invalid rrule %q: %w", event.ID, event.RRule, err)
	}
	rule.DTStart(start)

	var dates []string
	for _, t := range rule.Between(from, to, true) {
		dates = append(dates, t.Format(eventDateLayout))
	}
	return dates, nil
}

// ListEventOccurrences expands every event of an area into its occurrences
// within the window, sorted by date then name.
func ListEventOccurrences(ctx context.Context, store EventOccurrenceStore, areaCode string, from, to time.Time) ([]EventOccurrence, error) {
	events, err := store.GetEvents(ctx, areaCode)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	var occurrences []EventOccurrence
	for _, e := range events {
		dates, err := ExpandEvent(e, from, to)
		if err != nil {
			return nil, err
		}
		for _, d := range dates {
			occurrences = append(occurrences, EventOccurrence{
				EventID:    e.ID,
				Name:       e.Name,
				Date:       d,
				CenterCode: e.CenterCode,
				AreaCode:   e.AreaCode,
			})
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].Date != occurrences[j].Date {
			return occurrences[i].Date < occurrences[j].Date
		}
		return occurrences[i].Name < occurrences[j].Name
	})

	return occurrences, nil
}
