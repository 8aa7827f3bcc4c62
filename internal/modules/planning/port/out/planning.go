package out

import (
	"context"
	"time"

	"tempo/internal/modules/planning/domain"
)

type API interface {
	// FetchPlan returns apperrors.ErrNotFound when no plan exists for date.
	FetchPlan(ctx context.Context, date string) (domain.DayPlan, error)
	GeneratePlan(ctx context.Context, date string) (domain.DayPlan, error)
	FetchCalendar(ctx context.Context, startDate, endDate string) ([]domain.DaySummary, error)
	UpdateItem(ctx context.Context, planItemID int, start, end time.Time) (domain.PlanItem, error)
	DeleteItem(ctx context.Context, planItemID int) error
	SendFeedback(ctx context.Context, taskID, outcome int, note string) error
}

// PlanCache is the local read model of fetched plans, so the schedule can
// still be rendered when the service is unreachable.
type PlanCache interface {
	SaveDay(ctx context.Context, plan domain.DayPlan) error
	SaveSummaries(ctx context.Context, days []domain.DaySummary) error
	LoadDay(ctx context.Context, date string) (domain.DayPlan, error)
	LoadRange(ctx context.Context, startDate, endDate string) ([]domain.DaySummary, error)
}
