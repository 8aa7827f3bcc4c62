package domain

import (
	"fmt"
	"strings"
	"time"
)

type TaskType string

const (
	TaskTypeStudy    TaskType = "study"
	TaskTypeWork     TaskType = "work"
	TaskTypeMeeting  TaskType = "meeting"
	TaskTypePersonal TaskType = "personal"
	TaskTypeSocial   TaskType = "social"
	TaskTypeAdmin    TaskType = "admin"
)

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

type PreferredTime string

const (
	PreferredMorning   PreferredTime = "morning"
	PreferredAfternoon PreferredTime = "afternoon"
	PreferredEvening   PreferredTime = "evening"
	PreferredAnytime   PreferredTime = "anytime"
)

type TaskStatus string

const (
	StatusPending     TaskStatus = "pending"
	StatusScheduled   TaskStatus = "scheduled"
	StatusCompleted   TaskStatus = "completed"
	StatusUnscheduled TaskStatus = "unscheduled"
)

// Task is work the planner may place on the calendar. The scheduling
// attributes (type, importance, preferred time, energy) feed the service's
// model; the client only validates and relays them.
type Task struct {
	ID              int
	Title           string
	Description     string
	DurationMinutes int
	Deadline        time.Time
	Type            TaskType
	Importance      Level
	PreferredTime   PreferredTime
	Energy          Level
	Status          TaskStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t TaskType) Validate() error {
	switch t {
	case TaskTypeStudy, TaskTypeWork, TaskTypeMeeting, TaskTypePersonal, TaskTypeSocial, TaskTypeAdmin:
		return nil
	default:
		return fmt.Errorf("unsupported task type %q", string(t))
	}
}

func (l Level) Validate() error {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return nil
	default:
		return fmt.Errorf("unsupported level %q", string(l))
	}
}

func (p PreferredTime) Validate() error {
	switch p {
	case PreferredMorning, PreferredAfternoon, PreferredEvening, PreferredAnytime:
		return nil
	default:
		return fmt.Errorf("unsupported preferred time %q", string(p))
	}
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if t.DurationMinutes <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if t.Deadline.IsZero() {
		return fmt.Errorf("deadline is required")
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Importance.Validate(); err != nil {
		return fmt.Errorf("importance: %w", err)
	}
	if err := t.PreferredTime.Validate(); err != nil {
		return err
	}
	if err := t.Energy.Validate(); err != nil {
		return fmt.Errorf("energy: %w", err)
	}
	return nil
}
