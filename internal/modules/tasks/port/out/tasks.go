package out

import (
	"context"

	"tempo/internal/modules/tasks/domain"
)

type API interface {
	CreateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, taskID int) (domain.Task, error)
	DeleteTask(ctx context.Context, taskID int) error
}
