package service

import (
	"context"
	"fmt"

	planningdto "tempo/internal/modules/planning/dto"
	planningin "tempo/internal/modules/planning/port/in"
	"tempo/internal/modules/schedule/domain"
	"tempo/internal/modules/schedule/dto"
	apperrors "tempo/internal/platform/errors"
)

// WeekComposer derives the positioned week grid from planning state. It
// holds no state of its own; the output is recomputed from whatever the
// synchronizer currently shows.
type WeekComposer struct {
	planning planningin.Usecase
}

func NewWeekComposer(planning planningin.Usecase) *WeekComposer {
	return &WeekComposer{planning: planning}
}

func (c *WeekComposer) WeekView(ctx context.Context, scale float64) (dto.WeekViewOutput, error) {
	state, err := c.planning.State(ctx)
	if err != nil {
		return dto.WeekViewOutput{}, err
	}
	return c.compose(state, scale)
}

func (c *WeekComposer) WeekViewFor(ctx context.Context, date string, scale float64) (dto.WeekViewOutput, error) {
	state, err := c.planning.SelectDate(ctx, date)
	if err != nil {
		return dto.WeekViewOutput{}, err
	}
	return c.compose(state, scale)
}

func (c *WeekComposer) compose(state planningdto.PlanViewOutput, scale float64) (dto.WeekViewOutput, error) {
	week, err := domain.WeekOf(state.Date)
	if err != nil {
		return dto.WeekViewOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	itemsByDate := make(map[string][]planningdto.PlanItemOutput, len(state.Calendar))
	for _, day := range state.Calendar {
		itemsByDate[day.Date] = day.Scheduled
	}
	// The live plan overrides the calendar snapshot for the selected date,
	// so a just-applied reschedule or delete shows immediately.
	itemsByDate[state.Date] = state.Plan.Scheduled

	view := dto.WeekViewOutput{Date: state.Date, Scale: scale}
	for i, date := range week {
		view.Days[i] = dto.DayColumnOutput{
			Date:   date,
			Blocks: toBlockOutputs(domain.Layout(toIntervals(itemsByDate[date]), scale)),
		}
	}
	return view, nil
}

func toIntervals(items []planningdto.PlanItemOutput) []domain.Interval {
	intervals := make([]domain.Interval, 0, len(items))
	for _, item := range items {
		intervals = append(intervals, domain.Interval{
			PlanItemID: item.PlanItemID,
			TaskID:     item.TaskID,
			Title:      item.Title,
			Start:      item.Start,
			End:        item.End,
		})
	}
	return intervals
}

func toBlockOutputs(blocks []domain.Block) []dto.BlockOutput {
	out := make([]dto.BlockOutput, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, dto.BlockOutput{
			PlanItemID: b.PlanItemID,
			TaskID:     b.TaskID,
			Title:      b.Title,
			Top:        b.Top,
			Height:     b.Height,
			Start:      b.Start,
			End:        b.End,
		})
	}
	return out
}
