package in

import (
	"context"

	"tempo/internal/modules/planning/dto"
)

type Usecase interface {
	// SelectDate makes date current and loads its plan and month calendar.
	// A completion for a date that is no longer selected is discarded.
	SelectDate(ctx context.Context, date string) (dto.PlanViewOutput, error)
	// Refresh reloads plan and calendar for the currently selected date.
	Refresh(ctx context.Context) (dto.PlanViewOutput, error)
	// State returns the current snapshot without touching the network.
	State(ctx context.Context) (dto.PlanViewOutput, error)
	// Generate asks the service to (re)plan the selected date.
	Generate(ctx context.Context) (dto.PlanViewOutput, error)
	Reschedule(ctx context.Context, input dto.RescheduleInput) (dto.PlanViewOutput, error)
	Remove(ctx context.Context, planItemID int) (dto.PlanViewOutput, error)
	RecordFeedback(ctx context.Context, input dto.FeedbackInput) error
	// CachedPlan serves the last successfully fetched plan for date from
	// the local cache, for use when the service is unreachable.
	CachedPlan(ctx context.Context, date string) (dto.DayPlanOutput, error)
}
