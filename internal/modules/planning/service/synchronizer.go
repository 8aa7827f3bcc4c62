package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tempo/internal/modules/planning/domain"
	planningout "tempo/internal/modules/planning/port/out"
	"tempo/internal/platform/clock"
	apperrors "tempo/internal/platform/errors"
)

// View is the atomic snapshot of planning state: the selected date's plan
// and the calendar of its month, loaded together so the two never diverge.
type View struct {
	Date     string
	Plan     domain.DayPlan
	Calendar []domain.DaySummary
}

// Synchronizer owns the plan-for-a-date and calendar-for-a-month state.
// Loads are tagged with the date and a sequence number they were issued
// for; a completion for a superseded date (or an older load of the same
// date) is discarded instead of overwriting newer data. Network
// completions may arrive in any order.
type Synchronizer struct {
	api   planningout.API
	cache planningout.PlanCache

	mu        sync.Mutex
	selected  string
	seq       uint64
	committed uint64
	plan      domain.DayPlan
	calendar  []domain.DaySummary
}

func NewSynchronizer(api planningout.API, cache planningout.PlanCache, clk clock.Clock) *Synchronizer {
	today := clk.Now().Format(domain.DateLayout)
	return &Synchronizer{
		api:      api,
		cache:    cache,
		selected: today,
		plan:     domain.DayPlan{Date: today},
	}
}

func (s *Synchronizer) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Synchronizer) SelectedDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SelectDate makes date current and loads plan + calendar for it. The
// returned view is whatever is current once this load settles, which is
// the newer date's data when another SelectDate overtook this one.
func (s *Synchronizer) SelectDate(ctx context.Context, date string) (View, error) {
	s.mu.Lock()
	s.selected = date
	s.seq++
	gen := s.seq
	s.mu.Unlock()

	plan, calendar, err := s.fetch(ctx, date)
	if err != nil {
		return View{}, err
	}
	return s.commit(date, gen, plan, calendar), nil
}

// Reload re-fetches plan + calendar for the currently selected date.
func (s *Synchronizer) Reload(ctx context.Context) (View, error) {
	return s.SelectDate(ctx, s.SelectedDate())
}

// Generate requests a server-side plan for the selected date, replacing
// any existing plan, then reloads the calendar since the generated date
// may fall inside the displayed month.
func (s *Synchronizer) Generate(ctx context.Context) (View, error) {
	s.mu.Lock()
	date := s.selected
	s.seq++
	gen := s.seq
	s.mu.Unlock()

	plan, err := s.api.GeneratePlan(ctx, date)
	if err != nil {
		return View{}, fmt.Errorf("generate plan: %w", err)
	}
	plan.Date = date
	s.saveDay(ctx, plan)

	calendar, err := s.fetchCalendar(ctx, date)
	if err != nil {
		return View{}, err
	}
	return s.commit(date, gen, plan, calendar), nil
}

// Reschedule moves one plan item, then reloads plan + calendar for the
// selected date before returning so neither view is left stale.
func (s *Synchronizer) Reschedule(ctx context.Context, planItemID int, start, end time.Time) (View, error) {
	if _, err := s.api.UpdateItem(ctx, planItemID, start, end); err != nil {
		return View{}, fmt.Errorf("reschedule item %d: %w", planItemID, err)
	}
	return s.Reload(ctx)
}

// Remove deletes one plan item, then reloads plan + calendar.
func (s *Synchronizer) Remove(ctx context.Context, planItemID int) (View, error) {
	if err := s.api.DeleteItem(ctx, planItemID); err != nil {
		return View{}, fmt.Errorf("remove item %d: %w", planItemID, err)
	}
	return s.Reload(ctx)
}

// RecordFeedback is fire-and-forget toward the learning component: local
// state is untouched and a failure is reported, never retried.
func (s *Synchronizer) RecordFeedback(ctx context.Context, taskID, outcome int, note string) error {
	return s.api.SendFeedback(ctx, taskID, outcome, note)
}

// CachedPlan serves the last successfully fetched plan for date.
func (s *Synchronizer) CachedPlan(ctx context.Context, date string) (domain.DayPlan, error) {
	if s.cache == nil {
		return domain.DayPlan{}, apperrors.ErrNotFound
	}
	return s.cache.LoadDay(ctx, date)
}

func (s *Synchronizer) fetch(ctx context.Context, date string) (domain.DayPlan, []domain.DaySummary, error) {
	plan, err := s.api.FetchPlan(ctx, date)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		// No plan generated yet is an empty state, not an error.
		plan = domain.DayPlan{Date: date}
	case err != nil:
		return domain.DayPlan{}, nil, fmt.Errorf("fetch plan: %w", err)
	default:
		plan.Date = date
		s.saveDay(ctx, plan)
	}

	calendar, err := s.fetchCalendar(ctx, date)
	if err != nil {
		return domain.DayPlan{}, nil, err
	}
	return plan, calendar, nil
}

func (s *Synchronizer) fetchCalendar(ctx context.Context, date string) ([]domain.DaySummary, error) {
	start, end, err := domain.MonthRange(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	days, err := s.api.FetchCalendar(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.SaveSummaries(ctx, days)
	}
	return days, nil
}

func (s *Synchronizer) saveDay(ctx context.Context, plan domain.DayPlan) {
	if s.cache != nil {
		_ = s.cache.SaveDay(ctx, plan)
	}
}

// commit applies a completed load only when its date is still selected and
// no newer load has already committed. Last write wins by issue order, not
// completion order.
func (s *Synchronizer) commit(date string, gen uint64, plan domain.DayPlan, calendar []domain.DaySummary) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if date == s.selected && gen > s.committed {
		s.committed = gen
		s.plan = plan
		s.calendar = calendar
	}
	return s.viewLocked()
}

func (s *Synchronizer) viewLocked() View {
	return View{Date: s.selected, Plan: s.plan, Calendar: s.calendar}
}
