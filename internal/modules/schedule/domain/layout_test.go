package domain_test

import (
	"testing"
	"time"

	"tempo/internal/modules/schedule/domain"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 3, hour, minute, 0, 0, time.UTC)
}

func layoutOne(t *testing.T, start, end time.Time, scale float64) domain.Block {
	t.Helper()
	blocks := domain.Layout([]domain.Interval{{PlanItemID: 1, Start: start, End: end}}, scale)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	return blocks[0]
}

func TestShortIntervalClampsToMinimumHeight(t *testing.T) {
	// 09:00 is two hours into the window; 20 minutes rounds up to the
	// 30 minute visual floor.
	block := layoutOne(t, at(9, 0), at(9, 20), 60)
	if block.Top != 120 {
		t.Errorf("top = %v, want 120", block.Top)
	}
	if block.Height != 30 {
		t.Errorf("height = %v, want 30", block.Height)
	}
}

func TestStartBeforeWindowPinsToTop(t *testing.T) {
	block := layoutOne(t, at(6, 0), at(8, 0), 60)
	if block.Top != 0 {
		t.Errorf("top = %v, want 0", block.Top)
	}
	if block.Height != 120 {
		t.Errorf("height = %v, want 120", block.Height)
	}
}

func TestFullHourAtScale(t *testing.T) {
	block := layoutOne(t, at(10, 30), at(12, 0), 80)
	// 10:30 is 3.5 hours past 07:00.
	if block.Top != 3.5*80 {
		t.Errorf("top = %v, want %v", block.Top, 3.5*80)
	}
	if block.Height != 1.5*80 {
		t.Errorf("height = %v, want %v", block.Height, 1.5*80)
	}
}

func TestEndPastWindowIsClippedToBottom(t *testing.T) {
	block := layoutOne(t, at(20, 0), at(23, 0), 60)
	if block.Top != 13*60 {
		t.Errorf("top = %v, want %v", block.Top, 13*60)
	}
	if block.Top+block.Height != float64(domain.WindowHours)*60 {
		t.Errorf("block bottom = %v, want window height %v", block.Top+block.Height, domain.WindowHours*60)
	}
}

func TestStartAtOrPastWindowEndIsDropped(t *testing.T) {
	blocks := domain.Layout([]domain.Interval{
		{PlanItemID: 1, Start: at(21, 0), End: at(22, 0)},
		{PlanItemID: 2, Start: at(22, 30), End: at(23, 0)},
	}, 60)
	if len(blocks) != 0 {
		t.Fatalf("got %d blocks, want 0", len(blocks))
	}
}

func TestInvertedIntervalFallsBackToMinimum(t *testing.T) {
	block := layoutOne(t, at(9, 0), at(8, 0), 60)
	if block.Top != 120 || block.Height != 30 {
		t.Fatalf("block = %+v, want top 120 height 30", block)
	}
}

func TestWeekOfStartsMonday(t *testing.T) {
	cases := []struct {
		date string
		want [7]string
	}{
		// A Wednesday.
		{"2025-03-05", [7]string{"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07", "2025-03-08", "2025-03-09"}},
		// A Sunday belongs to the week that started the previous Monday.
		{"2025-03-09", [7]string{"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07", "2025-03-08", "2025-03-09"}},
		// A Monday starts its own week.
		{"2025-03-10", [7]string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14", "2025-03-15", "2025-03-16"}},
	}
	for _, tc := range cases {
		week, err := domain.WeekOf(tc.date)
		if err != nil {
			t.Fatalf("week of %s: %v", tc.date, err)
		}
		if week != tc.want {
			t.Errorf("week of %s = %v, want %v", tc.date, week, tc.want)
		}
	}
}

func TestWeekOfRejectsMalformedDate(t *testing.T) {
	if _, err := domain.WeekOf("03/05/2025"); err == nil {
		t.Fatal("expected error")
	}
}
