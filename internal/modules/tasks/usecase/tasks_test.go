package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tempo/internal/modules/tasks/domain"
	"tempo/internal/modules/tasks/dto"
	"tempo/internal/modules/tasks/service"
	"tempo/internal/modules/tasks/usecase"
	apperrors "tempo/internal/platform/errors"
)

type fakeTaskAPI struct {
	created []domain.Task
	tasks   []domain.Task
	deleted []int
	nextID  int
}

func (f *fakeTaskAPI) CreateTask(_ context.Context, task domain.Task) (domain.Task, error) {
	f.nextID++
	task.ID = f.nextID
	task.Status = domain.StatusPending
	f.created = append(f.created, task)
	return task, nil
}

func (f *fakeTaskAPI) ListTasks(context.Context) ([]domain.Task, error) {
	return f.tasks, nil
}

func (f *fakeTaskAPI) GetTask(_ context.Context, taskID int) (domain.Task, error) {
	for _, task := range f.tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return domain.Task{}, apperrors.ErrNotFound
}

func (f *fakeTaskAPI) DeleteTask(_ context.Context, taskID int) error {
	f.deleted = append(f.deleted, taskID)
	return nil
}

func validInput() dto.CreateTaskInput {
	return dto.CreateTaskInput{
		Title:           "write thesis chapter",
		DurationMinutes: 90,
		Deadline:        time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC),
		Type:            "study",
		Importance:      "high",
		PreferredTime:   "morning",
		Energy:          "high",
	}
}

func TestCreateAssignsServerIDAndStatus(t *testing.T) {
	api := &fakeTaskAPI{}
	uc := usecase.NewInteractor(service.NewTaskService(api))

	out, err := uc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.ID != 1 || out.Status != "pending" {
		t.Fatalf("output = %+v", out)
	}
}

func TestCreateDefaultsBlankAttributes(t *testing.T) {
	api := &fakeTaskAPI{}
	uc := usecase.NewInteractor(service.NewTaskService(api))

	input := validInput()
	input.Type = ""
	input.Importance = ""
	input.PreferredTime = ""
	input.Energy = ""

	out, err := uc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Type != "study" || out.Importance != "medium" || out.PreferredTime != "anytime" || out.Energy != "medium" {
		t.Fatalf("defaults not applied: %+v", out)
	}
}

func TestCreateValidatesBeforeDispatch(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.CreateTaskInput)
	}{
		{"empty title", func(in *dto.CreateTaskInput) { in.Title = "   " }},
		{"zero duration", func(in *dto.CreateTaskInput) { in.DurationMinutes = 0 }},
		{"negative duration", func(in *dto.CreateTaskInput) { in.DurationMinutes = -30 }},
		{"missing deadline", func(in *dto.CreateTaskInput) { in.Deadline = time.Time{} }},
		{"unknown type", func(in *dto.CreateTaskInput) { in.Type = "errand" }},
		{"unknown importance", func(in *dto.CreateTaskInput) { in.Importance = "critical" }},
		{"unknown preferred time", func(in *dto.CreateTaskInput) { in.PreferredTime = "night" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeTaskAPI{}
			uc := usecase.NewInteractor(service.NewTaskService(api))

			input := validInput()
			tc.mutate(&input)

			_, err := uc.Create(context.Background(), input)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if len(api.created) != 0 {
				t.Fatal("invalid task was dispatched")
			}
		})
	}
}

func TestGetUnknownTaskIsNotFound(t *testing.T) {
	api := &fakeTaskAPI{}
	uc := usecase.NewInteractor(service.NewTaskService(api))

	if _, err := uc.Get(context.Background(), 42); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteRejectsMissingID(t *testing.T) {
	api := &fakeTaskAPI{}
	uc := usecase.NewInteractor(service.NewTaskService(api))

	if err := uc.Delete(context.Background(), 0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if len(api.deleted) != 0 {
		t.Fatal("delete was dispatched")
	}
}
