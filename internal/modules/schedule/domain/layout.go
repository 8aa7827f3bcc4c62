package domain

import (
	"fmt"
	"time"
)

// The visible day window runs 07:00 to 21:00. Scale is pixels per hour.
const (
	WindowStartHour = 7
	WindowEndHour   = 21
	WindowHours     = WindowEndHour - WindowStartHour

	// MinBlockMinutes keeps very short or malformed intervals visible
	// instead of collapsing them to zero-height blocks.
	MinBlockMinutes = 30
)

const dateLayout = "2006-01-02"

// Interval is one scheduled block of a day, identified by its plan item.
type Interval struct {
	PlanItemID int
	TaskID     int
	Title      string
	Start      time.Time
	End        time.Time
}

// Block is an Interval positioned on the hour grid: Top and Height are
// absolute pixel offsets within the day column.
type Block struct {
	PlanItemID int
	TaskID     int
	Title      string
	Top        float64
	Height     float64
	Start      time.Time
	End        time.Time
}

// Layout positions a day's intervals on the window grid. Intervals starting
// before the window are pinned to its top; blocks running past the window
// end are clipped to its bottom, and intervals starting at or after the
// window end are dropped. Inverted intervals (end before start) fall back
// to the minimum block size rather than failing.
func Layout(intervals []Interval, scale float64) []Block {
	windowHeight := float64(WindowHours) * scale
	blocks := make([]Block, 0, len(intervals))
	for _, iv := range intervals {
		startMin := float64(iv.Start.Hour()*60 + iv.Start.Minute())
		top := (startMin - WindowStartHour*60) * scale / 60
		if top < 0 {
			top = 0
		}
		if top >= windowHeight {
			continue
		}
		durMin := iv.End.Sub(iv.Start).Minutes()
		if durMin < MinBlockMinutes {
			durMin = MinBlockMinutes
		}
		height := durMin / 60 * scale
		if top+height > windowHeight {
			height = windowHeight - top
		}
		blocks = append(blocks, Block{
			PlanItemID: iv.PlanItemID,
			TaskID:     iv.TaskID,
			Title:      iv.Title,
			Top:        top,
			Height:     height,
			Start:      iv.Start,
			End:        iv.End,
		})
	}
	return blocks
}

// WeekOf returns the seven dates of the Monday-starting week containing date.
func WeekOf(date string) ([7]string, error) {
	var week [7]string
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return week, fmt.Errorf("parse date %q: %w", date, err)
	}
	// time.Weekday numbers Sunday as 0; shift so Monday is offset 0.
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	for i := range week {
		week[i] = monday.AddDate(0, 0, i).Format(dateLayout)
	}
	return week, nil
}
