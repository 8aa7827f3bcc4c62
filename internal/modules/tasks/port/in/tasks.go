package in

import (
	"context"

	"tempo/internal/modules/tasks/dto"
)

type Usecase interface {
	// Create validates the task locally before dispatching it; the service
	// assigns the id and initial status.
	Create(ctx context.Context, input dto.CreateTaskInput) (dto.TaskOutput, error)
	// List returns the user's tasks ordered by deadline.
	List(ctx context.Context) ([]dto.TaskOutput, error)
	Get(ctx context.Context, taskID int) (dto.TaskOutput, error)
	Delete(ctx context.Context, taskID int) error
}
