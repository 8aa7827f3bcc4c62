package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tempo/internal/modules/planning/domain"
	"tempo/internal/modules/planning/service"
	apperrors "tempo/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakePlanAPI struct {
	mu            sync.Mutex
	plans         map[string]domain.DayPlan
	gates         map[string]chan struct{}
	calendarCalls int
	updateCalls   int
	deleteCalls   int
	feedback      []int
}

func newFakePlanAPI() *fakePlanAPI {
	return &fakePlanAPI{plans: map[string]domain.DayPlan{}, gates: map[string]chan struct{}{}}
}

func (f *fakePlanAPI) setPlan(date string, items ...domain.PlanItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans[date] = domain.DayPlan{Date: date, Scheduled: items, ModelVersion: "v1"}
}

func (f *fakePlanAPI) gate(date string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[date] = ch
	return ch
}

func (f *fakePlanAPI) FetchPlan(_ context.Context, date string) (domain.DayPlan, error) {
	f.mu.Lock()
	gate := f.gates[date]
	plan, ok := f.plans[date]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if !ok {
		return domain.DayPlan{}, apperrors.ErrNotFound
	}
	return plan, nil
}

func (f *fakePlanAPI) GeneratePlan(_ context.Context, date string) (domain.DayPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	plan := domain.DayPlan{
		Date:         date,
		Scheduled:    []domain.PlanItem{{PlanItemID: 99, TaskID: 9, Title: "generated"}},
		ModelVersion: "v2",
	}
	f.plans[date] = plan
	return plan, nil
}

func (f *fakePlanAPI) FetchCalendar(context.Context, string, string) ([]domain.DaySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calendarCalls++
	var days []domain.DaySummary
	for date, plan := range f.plans {
		days = append(days, domain.DaySummary{Date: date, Scheduled: plan.Scheduled})
	}
	return days, nil
}

func (f *fakePlanAPI) UpdateItem(_ context.Context, planItemID int, start, end time.Time) (domain.PlanItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	for date, plan := range f.plans {
		for i, item := range plan.Scheduled {
			if item.PlanItemID == planItemID {
				plan.Scheduled[i].Start = start
				plan.Scheduled[i].End = end
				f.plans[date] = plan
				return plan.Scheduled[i], nil
			}
		}
	}
	return domain.PlanItem{}, apperrors.ErrNotFound
}

func (f *fakePlanAPI) DeleteItem(_ context.Context, planItemID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	for date, plan := range f.plans {
		kept := plan.Scheduled[:0]
		for _, item := range plan.Scheduled {
			if item.PlanItemID != planItemID {
				kept = append(kept, item)
			}
		}
		plan.Scheduled = kept
		f.plans[date] = plan
	}
	return nil
}

func (f *fakePlanAPI) SendFeedback(_ context.Context, taskID, outcome int, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = append(f.feedback, outcome)
	return nil
}

func newSync(api *fakePlanAPI) *service.Synchronizer {
	return service.NewSynchronizer(api, nil, fixedClock{now: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)})
}

func TestLateCompletionForSupersededDateIsDiscarded(t *testing.T) {
	api := newFakePlanAPI()
	api.setPlan("2025-03-04", domain.PlanItem{PlanItemID: 1, Title: "d1 work"})
	api.setPlan("2025-03-05", domain.PlanItem{PlanItemID: 2, Title: "d2 work"})

	gate := api.gate("2025-03-04")
	s := newSync(api)

	firstDone := make(chan service.View, 1)
	go func() {
		view, _ := s.SelectDate(context.Background(), "2025-03-04")
		firstDone <- view
	}()

	// Give the first load time to pass selection and block in FetchPlan.
	time.Sleep(20 * time.Millisecond)

	if _, err := s.SelectDate(context.Background(), "2025-03-05"); err != nil {
		t.Fatalf("select d2: %v", err)
	}

	close(gate)
	<-firstDone

	view := s.View()
	if view.Date != "2025-03-05" {
		t.Fatalf("selected date = %q, want 2025-03-05", view.Date)
	}
	if len(view.Plan.Scheduled) != 1 || view.Plan.Scheduled[0].Title != "d2 work" {
		t.Fatalf("displayed plan is not d2's data: %+v", view.Plan.Scheduled)
	}
}

func TestAbsentPlanResolvesToEmptyNotError(t *testing.T) {
	api := newFakePlanAPI()
	s := newSync(api)

	view, err := s.SelectDate(context.Background(), "2025-03-10")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(view.Plan.Scheduled) != 0 || len(view.Plan.Unscheduled) != 0 {
		t.Fatalf("expected empty plan, got %+v", view.Plan)
	}
	if view.Plan.Date != "2025-03-10" {
		t.Fatalf("empty plan date = %q", view.Plan.Date)
	}
}

func TestRescheduleReloadsPlanAndCalendarBeforeReturning(t *testing.T) {
	api := newFakePlanAPI()
	api.setPlan("2025-03-03", domain.PlanItem{PlanItemID: 7, Title: "deep work"})
	s := newSync(api)

	if _, err := s.SelectDate(context.Background(), "2025-03-03"); err != nil {
		t.Fatalf("select: %v", err)
	}
	callsBefore := api.calendarCalls

	start := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	view, err := s.Reschedule(context.Background(), 7, start, end)
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if api.updateCalls != 1 {
		t.Fatalf("update calls = %d", api.updateCalls)
	}
	if api.calendarCalls != callsBefore+1 {
		t.Fatal("calendar was not reloaded after the mutation")
	}
	if got := view.Plan.Scheduled[0]; !got.Start.Equal(start) || !got.End.Equal(end) {
		t.Fatalf("round trip mismatch: start %v end %v", got.Start, got.End)
	}
}

func TestRemoveReloadsAndDropsItem(t *testing.T) {
	api := newFakePlanAPI()
	api.setPlan("2025-03-03",
		domain.PlanItem{PlanItemID: 1, Title: "keep"},
		domain.PlanItem{PlanItemID: 2, Title: "drop"},
	)
	s := newSync(api)

	if _, err := s.SelectDate(context.Background(), "2025-03-03"); err != nil {
		t.Fatalf("select: %v", err)
	}
	view, err := s.Remove(context.Background(), 2)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(view.Plan.Scheduled) != 1 || view.Plan.Scheduled[0].Title != "keep" {
		t.Fatalf("plan after remove: %+v", view.Plan.Scheduled)
	}
}

func TestGenerateReplacesPlanAndReloadsCalendar(t *testing.T) {
	api := newFakePlanAPI()
	api.setPlan("2025-03-03", domain.PlanItem{PlanItemID: 1, Title: "old"})
	s := newSync(api)

	if _, err := s.SelectDate(context.Background(), "2025-03-03"); err != nil {
		t.Fatalf("select: %v", err)
	}
	callsBefore := api.calendarCalls

	view, err := s.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if view.Plan.ModelVersion != "v2" || view.Plan.Scheduled[0].Title != "generated" {
		t.Fatalf("plan not replaced: %+v", view.Plan)
	}
	if api.calendarCalls != callsBefore+1 {
		t.Fatal("calendar was not reloaded after generate")
	}
}

func TestFeedbackDoesNotTouchLocalState(t *testing.T) {
	api := newFakePlanAPI()
	api.setPlan("2025-03-03", domain.PlanItem{PlanItemID: 1, Title: "work"})
	s := newSync(api)

	before, err := s.SelectDate(context.Background(), "2025-03-03")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.RecordFeedback(context.Background(), 1, -1, ""); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	after := s.View()
	if len(after.Plan.Scheduled) != len(before.Plan.Scheduled) || after.Date != before.Date {
		t.Fatal("feedback mutated local state")
	}
	if len(api.feedback) != 1 || api.feedback[0] != -1 {
		t.Fatalf("feedback sent = %v", api.feedback)
	}
}

func TestTransportFailurePropagates(t *testing.T) {
	failing := &failingPlanAPI{fakePlanAPI: newFakePlanAPI()}
	s := service.NewSynchronizer(failing, nil, fixedClock{now: time.Now()})

	_, err := s.SelectDate(context.Background(), "2025-03-03")
	if !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}

type failingPlanAPI struct{ *fakePlanAPI }

func (f *failingPlanAPI) FetchPlan(context.Context, string) (domain.DayPlan, error) {
	return domain.DayPlan{}, apperrors.ErrTransport
}
