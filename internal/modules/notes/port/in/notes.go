package in

import (
	"context"

	"tempo/internal/modules/notes/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateNoteInput) (dto.NoteOutput, error)
	// List returns the user's notes, newest first.
	List(ctx context.Context) ([]dto.NoteOutput, error)
}
