package out

import (
	"context"
	"fmt"
	"net/http"

	"tempo/internal/modules/tasks/domain"
	tasksout "tempo/internal/modules/tasks/port/out"
	"tempo/internal/platform/api"
)

type HTTPTaskAPI struct {
	channel *api.Channel
}

func NewHTTPTaskAPI(channel *api.Channel) tasksout.API {
	return &HTTPTaskAPI{channel: channel}
}

type taskPayload struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	DurationMinutes int      `json:"duration_minutes"`
	Deadline        api.Time `json:"deadline"`
	TaskType        string   `json:"task_type"`
	Importance      string   `json:"importance"`
	PreferredTime   string   `json:"preferred_time"`
	Energy          string   `json:"energy"`
	Status          string   `json:"status,omitempty"`
}

func (a *HTTPTaskAPI) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	body := taskPayload{
		Title:           task.Title,
		Description:     task.Description,
		DurationMinutes: task.DurationMinutes,
		Deadline:        api.Time(task.Deadline),
		TaskType:        string(task.Type),
		Importance:      string(task.Importance),
		PreferredTime:   string(task.PreferredTime),
		Energy:          string(task.Energy),
	}
	var resp taskPayload
	err := a.channel.Do(ctx, api.Request{Method: http.MethodPost, Path: "/tasks/", Body: body}, &resp)
	if err != nil {
		return domain.Task{}, err
	}
	return resp.toDomain(), nil
}

func (a *HTTPTaskAPI) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var resp []taskPayload
	err := a.channel.Do(ctx, api.Request{Method: http.MethodGet, Path: "/tasks/"}, &resp)
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(resp))
	for _, payload := range resp {
		tasks = append(tasks, payload.toDomain())
	}
	return tasks, nil
}

func (a *HTTPTaskAPI) GetTask(ctx context.Context, taskID int) (domain.Task, error) {
	var resp taskPayload
	err := a.channel.Do(ctx, api.Request{Method: http.MethodGet, Path: fmt.Sprintf("/tasks/%d", taskID)}, &resp)
	if err != nil {
		return domain.Task{}, err
	}
	return resp.toDomain(), nil
}

func (a *HTTPTaskAPI) DeleteTask(ctx context.Context, taskID int) error {
	return a.channel.Do(ctx, api.Request{Method: http.MethodDelete, Path: fmt.Sprintf("/tasks/%d", taskID)}, nil)
}

func (p taskPayload) toDomain() domain.Task {
	return domain.Task{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		DurationMinutes: p.DurationMinutes,
		Deadline:        p.Deadline.Std(),
		Type:            domain.TaskType(p.TaskType),
		Importance:      domain.Level(p.Importance),
		PreferredTime:   domain.PreferredTime(p.PreferredTime),
		Energy:          domain.Level(p.Energy),
		Status:          domain.TaskStatus(p.Status),
	}
}
