package dto

import "time"

type BlockOutput struct {
	PlanItemID int
	TaskID     int
	Title      string
	Top        float64
	Height     float64
	Start      time.Time
	End        time.Time
}

type DayColumnOutput struct {
	Date   string
	Blocks []BlockOutput
}

// WeekViewOutput is the positioned week grid for the Monday-starting week
// containing the selected date.
type WeekViewOutput struct {
	Date  string
	Scale float64
	Days  [7]DayColumnOutput
}
