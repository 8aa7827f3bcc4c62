package in

import (
	"context"
	"time"

	"tempo/internal/modules/tasks/dto"
	tasksin "tempo/internal/modules/tasks/port/in"
)

type CLIHandler struct {
	usecase tasksin.Usecase
}

func NewCLIHandler(usecase tasksin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, title, description string, durationMinutes int, deadline time.Time, taskType, importance, preferredTime, energy string) (dto.TaskOutput, error) {
	return h.usecase.Create(ctx, dto.CreateTaskInput{
		Title:           title,
		Description:     description,
		DurationMinutes: durationMinutes,
		Deadline:        deadline,
		Type:            taskType,
		Importance:      importance,
		PreferredTime:   preferredTime,
		Energy:          energy,
	})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.TaskOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Show(ctx context.Context, taskID int) (dto.TaskOutput, error) {
	return h.usecase.Get(ctx, taskID)
}

func (h CLIHandler) Delete(ctx context.Context, taskID int) error {
	return h.usecase.Delete(ctx, taskID)
}
