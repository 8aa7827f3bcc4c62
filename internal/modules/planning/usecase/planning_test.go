package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tempo/internal/modules/planning/domain"
	"tempo/internal/modules/planning/dto"
	planningin "tempo/internal/modules/planning/port/in"
	"tempo/internal/modules/planning/service"
	"tempo/internal/modules/planning/usecase"
	apperrors "tempo/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// countingAPI fails the test if any call reaches it; validation must
// reject bad input before dispatch.
type countingAPI struct{ t *testing.T }

func (a *countingAPI) FetchPlan(context.Context, string) (domain.DayPlan, error) {
	a.t.Fatal("FetchPlan dispatched")
	return domain.DayPlan{}, nil
}

func (a *countingAPI) GeneratePlan(context.Context, string) (domain.DayPlan, error) {
	a.t.Fatal("GeneratePlan dispatched")
	return domain.DayPlan{}, nil
}

func (a *countingAPI) FetchCalendar(context.Context, string, string) ([]domain.DaySummary, error) {
	a.t.Fatal("FetchCalendar dispatched")
	return nil, nil
}

func (a *countingAPI) UpdateItem(context.Context, int, time.Time, time.Time) (domain.PlanItem, error) {
	a.t.Fatal("UpdateItem dispatched")
	return domain.PlanItem{}, nil
}

func (a *countingAPI) DeleteItem(context.Context, int) error {
	a.t.Fatal("DeleteItem dispatched")
	return nil
}

func (a *countingAPI) SendFeedback(context.Context, int, int, string) error {
	a.t.Fatal("SendFeedback dispatched")
	return nil
}

func newInteractor(t *testing.T) planningin.Usecase {
	t.Helper()
	svc := service.NewSynchronizer(&countingAPI{t: t}, nil, fixedClock{now: time.Now()})
	return usecase.NewInteractor(svc)
}

func TestSelectDateRejectsMalformedDate(t *testing.T) {
	uc := newInteractor(t)
	for _, date := range []string{"", "03/04/2025", "2025-13-01", "tomorrow"} {
		if _, err := uc.SelectDate(context.Background(), date); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("date %q: err = %v, want ErrInvalidInput", date, err)
		}
	}
}

func TestRescheduleRejectsInvertedInterval(t *testing.T) {
	uc := newInteractor(t)
	at := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	_, err := uc.Reschedule(context.Background(), dto.RescheduleInput{PlanItemID: 1, Start: at, End: at})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("zero-length: err = %v", err)
	}
	_, err = uc.Reschedule(context.Background(), dto.RescheduleInput{PlanItemID: 1, Start: at, End: at.Add(-time.Hour)})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("inverted: err = %v", err)
	}
	_, err = uc.Reschedule(context.Background(), dto.RescheduleInput{PlanItemID: 0, Start: at, End: at.Add(time.Hour)})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("missing id: err = %v", err)
	}
}

func TestRemoveRejectsMissingID(t *testing.T) {
	uc := newInteractor(t)
	if _, err := uc.Remove(context.Background(), 0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestFeedbackRejectsUnknownOutcome(t *testing.T) {
	uc := newInteractor(t)
	for _, outcome := range []int{0, 2, -2} {
		err := uc.RecordFeedback(context.Background(), dto.FeedbackInput{TaskID: 1, Outcome: outcome})
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("outcome %d: err = %v, want ErrInvalidInput", outcome, err)
		}
	}
	err := uc.RecordFeedback(context.Background(), dto.FeedbackInput{TaskID: 0, Outcome: 1})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("missing task id: err = %v", err)
	}
}

func TestCachedPlanWithoutCacheIsNotFound(t *testing.T) {
	uc := newInteractor(t)
	if _, err := uc.CachedPlan(context.Background(), "2025-03-03"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
