package usecase

import (
	"context"
	"fmt"

	"tempo/internal/modules/tasks/domain"
	"tempo/internal/modules/tasks/dto"
	tasksin "tempo/internal/modules/tasks/port/in"
	"tempo/internal/modules/tasks/service"
	apperrors "tempo/internal/platform/errors"
)

type Interactor struct {
	svc *service.TaskService
}

func NewInteractor(svc *service.TaskService) tasksin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateTaskInput) (dto.TaskOutput, error) {
	task := domain.Task{
		Title:           input.Title,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		Deadline:        input.Deadline,
		Type:            domain.TaskType(input.Type),
		Importance:      domain.Level(input.Importance),
		PreferredTime:   domain.PreferredTime(input.PreferredTime),
		Energy:          domain.Level(input.Energy),
	}
	applyDefaults(&task)
	if err := task.Validate(); err != nil {
		return dto.TaskOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	created, err := i.svc.Create(ctx, task)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toOutput(created), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.TaskOutput, error) {
	tasks, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskOutput, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toOutput(task))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, taskID int) (dto.TaskOutput, error) {
	if taskID <= 0 {
		return dto.TaskOutput{}, fmt.Errorf("%w: task id is required", apperrors.ErrInvalidInput)
	}
	task, err := i.svc.Get(ctx, taskID)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toOutput(task), nil
}

func (i *Interactor) Delete(ctx context.Context, taskID int) error {
	if taskID <= 0 {
		return fmt.Errorf("%w: task id is required", apperrors.ErrInvalidInput)
	}
	return i.svc.Delete(ctx, taskID)
}

// applyDefaults fills scheduling attributes a caller left blank.
func applyDefaults(task *domain.Task) {
	if task.Type == "" {
		task.Type = domain.TaskTypeStudy
	}
	if task.Importance == "" {
		task.Importance = domain.LevelMedium
	}
	if task.PreferredTime == "" {
		task.PreferredTime = domain.PreferredAnytime
	}
	if task.Energy == "" {
		task.Energy = domain.LevelMedium
	}
}

func toOutput(task domain.Task) dto.TaskOutput {
	return dto.TaskOutput{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		DurationMinutes: task.DurationMinutes,
		Deadline:        task.Deadline,
		Type:            string(task.Type),
		Importance:      string(task.Importance),
		PreferredTime:   string(task.PreferredTime),
		Energy:          string(task.Energy),
		Status:          string(task.Status),
	}
}
