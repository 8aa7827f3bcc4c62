package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for plan dates: a calendar date with no
// time component.
const DateLayout = "2006-01-02"

// PlanItem is one scheduled time block assigned to a task on a specific
// date. Start < End is owned by the service; consumers must tolerate
// violations rather than crash.
type PlanItem struct {
	PlanItemID       int
	TaskID           int
	Title            string
	Start            time.Time
	End              time.Time
	Explanation      string
	ModelExplanation string
	Priority         float64
}

// UnscheduledEntry is a task the planner could not place, with the
// service's human-readable reason.
type UnscheduledEntry struct {
	TaskID   int
	Title    string
	Deadline time.Time
	Reason   string
}

// DayPlan is the full plan for one date. An absent plan is represented as
// a DayPlan with empty slices, never as an error surfaced to callers.
type DayPlan struct {
	Date            string
	Scheduled       []PlanItem
	Unscheduled     []UnscheduledEntry
	ModelVersion    string
	ModelConfidence float64
}

// DaySummary is the calendar projection of one date inside a month range.
type DaySummary struct {
	Date      string
	Scheduled []PlanItem
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid plan date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// MonthRange returns the first and last day of the month containing date.
func MonthRange(date string) (string, string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", "", err
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout), nil
}
