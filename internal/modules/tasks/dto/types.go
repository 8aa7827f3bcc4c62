package dto

import "time"

type CreateTaskInput struct {
	Title           string
	Description     string
	DurationMinutes int
	Deadline        time.Time
	Type            string
	Importance      string
	PreferredTime   string
	Energy          string
}

type TaskOutput struct {
	ID              int
	Title           string
	Description     string
	DurationMinutes int
	Deadline        time.Time
	Type            string
	Importance      string
	PreferredTime   string
	Energy          string
	Status          string
}
