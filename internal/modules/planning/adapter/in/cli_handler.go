package in

import (
	"context"
	"time"

	"tempo/internal/modules/planning/dto"
	planningin "tempo/internal/modules/planning/port/in"
)

type CLIHandler struct {
	usecase planningin.Usecase
}

func NewCLIHandler(usecase planningin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, date string) (dto.PlanViewOutput, error) {
	return h.usecase.SelectDate(ctx, date)
}

func (h CLIHandler) ShowCached(ctx context.Context, date string) (dto.DayPlanOutput, error) {
	return h.usecase.CachedPlan(ctx, date)
}

func (h CLIHandler) Generate(ctx context.Context, date string) (dto.PlanViewOutput, error) {
	if _, err := h.usecase.SelectDate(ctx, date); err != nil {
		return dto.PlanViewOutput{}, err
	}
	return h.usecase.Generate(ctx)
}

func (h CLIHandler) Reschedule(ctx context.Context, date string, planItemID int, start, end time.Time) (dto.PlanViewOutput, error) {
	if _, err := h.usecase.SelectDate(ctx, date); err != nil {
		return dto.PlanViewOutput{}, err
	}
	return h.usecase.Reschedule(ctx, dto.RescheduleInput{PlanItemID: planItemID, Start: start, End: end})
}

func (h CLIHandler) Remove(ctx context.Context, date string, planItemID int) (dto.PlanViewOutput, error) {
	if _, err := h.usecase.SelectDate(ctx, date); err != nil {
		return dto.PlanViewOutput{}, err
	}
	return h.usecase.Remove(ctx, planItemID)
}

func (h CLIHandler) Feedback(ctx context.Context, taskID, outcome int, note string) error {
	return h.usecase.RecordFeedback(ctx, dto.FeedbackInput{TaskID: taskID, Outcome: outcome, Note: note})
}
