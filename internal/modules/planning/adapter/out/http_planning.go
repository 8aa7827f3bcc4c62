package out

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tempo/internal/modules/planning/domain"
	planningout "tempo/internal/modules/planning/port/out"
	"tempo/internal/platform/api"
)

type HTTPPlanningAPI struct {
	channel *api.Channel
}

func NewHTTPPlanningAPI(channel *api.Channel) planningout.API {
	return &HTTPPlanningAPI{channel: channel}
}

type planItemPayload struct {
	PlanItemID     int      `json:"plan_item_id"`
	TaskID         int      `json:"task_id"`
	Title          string   `json:"title"`
	Start          api.Time `json:"start"`
	End            api.Time `json:"end"`
	Explanation    string   `json:"explanation"`
	Priority       float64  `json:"priority"`
	LLMExplanation string   `json:"llm_explanation"`
}

type unscheduledPayload struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Deadline api.Time `json:"deadline"`
	Reason   string   `json:"reason"`
}

type planPayload struct {
	ModelVersion    string               `json:"model_version"`
	ModelConfidence float64              `json:"model_confidence"`
	Scheduled       []planItemPayload    `json:"scheduled"`
	Unscheduled     []unscheduledPayload `json:"unscheduled"`
}

func (p planPayload) toDomain() domain.DayPlan {
	plan := domain.DayPlan{
		ModelVersion:    p.ModelVersion,
		ModelConfidence: p.ModelConfidence,
		Scheduled:       make([]domain.PlanItem, 0, len(p.Scheduled)),
		Unscheduled:     make([]domain.UnscheduledEntry, 0, len(p.Unscheduled)),
	}
	for _, item := range p.Scheduled {
		plan.Scheduled = append(plan.Scheduled, item.toDomain())
	}
	for _, u := range p.Unscheduled {
		plan.Unscheduled = append(plan.Unscheduled, domain.UnscheduledEntry{
			TaskID:   u.ID,
			Title:    u.Title,
			Deadline: u.Deadline.Std(),
			Reason:   u.Reason,
		})
	}
	return plan
}

func (p planItemPayload) toDomain() domain.PlanItem {
	return domain.PlanItem{
		PlanItemID:       p.PlanItemID,
		TaskID:           p.TaskID,
		Title:            p.Title,
		Start:            p.Start.Std(),
		End:              p.End.Std(),
		Explanation:      p.Explanation,
		ModelExplanation: p.LLMExplanation,
		Priority:         p.Priority,
	}
}

func (a *HTTPPlanningAPI) FetchPlan(ctx context.Context, date string) (domain.DayPlan, error) {
	query := url.Values{"plan_date": {date}}
	var payload planPayload
	err := a.channel.Do(ctx, api.Request{Method: http.MethodGet, Path: "/planning/plan", Query: query}, &payload)
	if err != nil {
		return domain.DayPlan{}, err
	}
	plan := payload.toDomain()
	plan.Date = date
	return plan, nil
}

func (a *HTTPPlanningAPI) GeneratePlan(ctx context.Context, date string) (domain.DayPlan, error) {
	body := map[string]string{"date": date}
	var payload planPayload
	err := a.channel.Do(ctx, api.Request{Method: http.MethodPost, Path: "/planning/plan", Body: body}, &payload)
	if err != nil {
		return domain.DayPlan{}, err
	}
	plan := payload.toDomain()
	plan.Date = date
	return plan, nil
}

type calendarPayload struct {
	Days []struct {
		PlanDate  string            `json:"plan_date"`
		Scheduled []planItemPayload `json:"scheduled"`
	} `json:"days"`
}

func (a *HTTPPlanningAPI) FetchCalendar(ctx context.Context, startDate, endDate string) ([]domain.DaySummary, error) {
	query := url.Values{"start_date": {startDate}, "end_date": {endDate}}
	var payload calendarPayload
	err := a.channel.Do(ctx, api.Request{Method: http.MethodGet, Path: "/planning/calendar", Query: query}, &payload)
	if err != nil {
		return nil, err
	}
	days := make([]domain.DaySummary, 0, len(payload.Days))
	for _, day := range payload.Days {
		summary := domain.DaySummary{Date: day.PlanDate, Scheduled: make([]domain.PlanItem, 0, len(day.Scheduled))}
		for _, item := range day.Scheduled {
			summary.Scheduled = append(summary.Scheduled, item.toDomain())
		}
		days = append(days, summary)
	}
	return days, nil
}

func (a *HTTPPlanningAPI) UpdateItem(ctx context.Context, planItemID int, start, end time.Time) (domain.PlanItem, error) {
	query := url.Values{
		"start": {start.Format(time.RFC3339)},
		"end":   {end.Format(time.RFC3339)},
	}
	var payload planItemPayload
	err := a.channel.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   "/planning/item/" + strconv.Itoa(planItemID),
		Query:  query,
	}, &payload)
	if err != nil {
		return domain.PlanItem{}, err
	}
	return payload.toDomain(), nil
}

func (a *HTTPPlanningAPI) DeleteItem(ctx context.Context, planItemID int) error {
	return a.channel.Do(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   "/planning/item/" + strconv.Itoa(planItemID),
	}, nil)
}

func (a *HTTPPlanningAPI) SendFeedback(ctx context.Context, taskID, outcome int, note string) error {
	body := map[string]any{"task_id": taskID, "outcome": outcome}
	if note != "" {
		body["note"] = note
	}
	return a.channel.Do(ctx, api.Request{Method: http.MethodPost, Path: "/feedback/", Body: body}, nil)
}
