package usecase

import (
	"context"
	"fmt"

	"tempo/internal/modules/planning/domain"
	"tempo/internal/modules/planning/dto"
	planningin "tempo/internal/modules/planning/port/in"
	"tempo/internal/modules/planning/service"
	apperrors "tempo/internal/platform/errors"
)

type Interactor struct {
	svc *service.Synchronizer
}

func NewInteractor(svc *service.Synchronizer) planningin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) SelectDate(ctx context.Context, date string) (dto.PlanViewOutput, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return dto.PlanViewOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	view, err := i.svc.SelectDate(ctx, date)
	if err != nil {
		return dto.PlanViewOutput{}, err
	}
	return toViewOutput(view), nil
}

func (i *Interactor) Refresh(ctx context.Context) (dto.PlanViewOutput, error) {
	view, err := i.svc.Reload(ctx)
	if err != nil {
		return dto.PlanViewOutput{}, err
	}
	return toViewOutput(view), nil
}

func (i *Interactor) State(context.Context) (dto.PlanViewOutput, error) {
	return toViewOutput(i.svc.View()), nil
}

func (i *Interactor) Generate(ctx context.Context) (dto.PlanViewOutput, error) {
	view, err := i.svc.Generate(ctx)
	if err != nil {
		return dto.PlanViewOutput{}, err
	}
	return toViewOutput(view), nil
}

func (i *Interactor) Reschedule(ctx context.Context, input dto.RescheduleInput) (dto.PlanViewOutput, error) {
	if input.PlanItemID <= 0 {
		return dto.PlanViewOutput{}, fmt.Errorf("%w: plan item id is required", apperrors.ErrInvalidInput)
	}
	if !input.End.After(input.Start) {
		return dto.PlanViewOutput{}, fmt.Errorf("%w: end must be after start", apperrors.ErrInvalidInput)
	}
	view, err := i.svc.Reschedule(ctx, input.PlanItemID, input.Start, input.End)
	if err != nil {
		return dto.PlanViewOutput{}, err
	}
	return toViewOutput(view), nil
}

func (i *Interactor) Remove(ctx context.Context, planItemID int) (dto.PlanViewOutput, error) {
	if planItemID <= 0 {
		return dto.PlanViewOutput{}, fmt.Errorf("%w: plan item id is required", apperrors.ErrInvalidInput)
	}
	view, err := i.svc.Remove(ctx, planItemID)
	if err != nil {
		return dto.PlanViewOutput{}, err
	}
	return toViewOutput(view), nil
}

func (i *Interactor) RecordFeedback(ctx context.Context, input dto.FeedbackInput) error {
	if input.Outcome != 1 && input.Outcome != -1 {
		return fmt.Errorf("%w: outcome must be +1 or -1", apperrors.ErrInvalidInput)
	}
	if input.TaskID <= 0 {
		return fmt.Errorf("%w: task id is required", apperrors.ErrInvalidInput)
	}
	return i.svc.RecordFeedback(ctx, input.TaskID, input.Outcome, input.Note)
}

func (i *Interactor) CachedPlan(ctx context.Context, date string) (dto.DayPlanOutput, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return dto.DayPlanOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	plan, err := i.svc.CachedPlan(ctx, date)
	if err != nil {
		return dto.DayPlanOutput{}, err
	}
	return toDayPlanOutput(plan), nil
}

func toViewOutput(view service.View) dto.PlanViewOutput {
	out := dto.PlanViewOutput{
		Date:     view.Date,
		Plan:     toDayPlanOutput(view.Plan),
		Calendar: make([]dto.DaySummaryOutput, 0, len(view.Calendar)),
	}
	for _, day := range view.Calendar {
		out.Calendar = append(out.Calendar, dto.DaySummaryOutput{
			Date:      day.Date,
			Scheduled: toItemOutputs(day.Scheduled),
		})
	}
	return out
}

func toDayPlanOutput(plan domain.DayPlan) dto.DayPlanOutput {
	out := dto.DayPlanOutput{
		Date:            plan.Date,
		Scheduled:       toItemOutputs(plan.Scheduled),
		Unscheduled:     make([]dto.UnscheduledOutput, 0, len(plan.Unscheduled)),
		ModelVersion:    plan.ModelVersion,
		ModelConfidence: plan.ModelConfidence,
	}
	for _, u := range plan.Unscheduled {
		out.Unscheduled = append(out.Unscheduled, dto.UnscheduledOutput{
			TaskID:   u.TaskID,
			Title:    u.Title,
			Deadline: u.Deadline,
			Reason:   u.Reason,
		})
	}
	return out
}

func toItemOutputs(items []domain.PlanItem) []dto.PlanItemOutput {
	out := make([]dto.PlanItemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, dto.PlanItemOutput{
			PlanItemID:       item.PlanItemID,
			TaskID:           item.TaskID,
			Title:            item.Title,
			Start:            item.Start,
			End:              item.End,
			Explanation:      item.Explanation,
			ModelExplanation: item.ModelExplanation,
			Priority:         item.Priority,
		})
	}
	return out
}
