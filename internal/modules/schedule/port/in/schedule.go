package in

import (
	"context"

	"tempo/internal/modules/schedule/dto"
)

type Usecase interface {
	// WeekView lays out the current planning state without touching the
	// network. The selected date's column reflects the live plan, not the
	// calendar snapshot.
	WeekView(ctx context.Context, scale float64) (dto.WeekViewOutput, error)
	// WeekViewFor selects date (loading its plan and calendar) and then
	// lays out the containing week.
	WeekViewFor(ctx context.Context, date string, scale float64) (dto.WeekViewOutput, error)
}
