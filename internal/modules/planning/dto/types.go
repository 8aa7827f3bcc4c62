package dto

import "time"

type PlanItemOutput struct {
	PlanItemID       int
	TaskID           int
	Title            string
	Start            time.Time
	End              time.Time
	Explanation      string
	ModelExplanation string
	Priority         float64
}

type UnscheduledOutput struct {
	TaskID   int
	Title    string
	Deadline time.Time
	Reason   string
}

type DayPlanOutput struct {
	Date            string
	Scheduled       []PlanItemOutput
	Unscheduled     []UnscheduledOutput
	ModelVersion    string
	ModelConfidence float64
}

type DaySummaryOutput struct {
	Date      string
	Scheduled []PlanItemOutput
}

// PlanViewOutput is the atomic snapshot handed to presentation code: the
// selected date's plan and the calendar of its month, never mixing dates.
type PlanViewOutput struct {
	Date     string
	Plan     DayPlanOutput
	Calendar []DaySummaryOutput
}

type RescheduleInput struct {
	PlanItemID int
	Start      time.Time
	End        time.Time
}

type FeedbackInput struct {
	TaskID  int
	Outcome int // +1 prefer earlier, -1 prefer later
	Note    string
}
