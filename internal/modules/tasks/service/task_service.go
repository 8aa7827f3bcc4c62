package service

import (
	"context"
	"fmt"

	"tempo/internal/modules/tasks/domain"
	tasksout "tempo/internal/modules/tasks/port/out"
)

// TaskService relays task operations to the remote service. Tasks are
// server-owned state; the client holds no copy beyond what a call returns.
type TaskService struct {
	api tasksout.API
}

func NewTaskService(apiPort tasksout.API) *TaskService {
	return &TaskService{api: apiPort}
}

func (s *TaskService) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	created, err := s.api.CreateTask(ctx, task)
	if err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, taskID int) (domain.Task, error) {
	task, err := s.api.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("get task %d: %w", taskID, err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID int) error {
	if err := s.api.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task %d: %w", taskID, err)
	}
	return nil
}
