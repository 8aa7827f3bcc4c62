package dto

import "time"

type CreateNoteInput struct {
	Title string
	Body  string
}

type NoteOutput struct {
	ID        int
	Title     string
	Body      string
	CreatedAt time.Time
}
