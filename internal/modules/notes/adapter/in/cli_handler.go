package in

import (
	"context"

	"tempo/internal/modules/notes/dto"
	notesin "tempo/internal/modules/notes/port/in"
)

type CLIHandler struct {
	usecase notesin.Usecase
}

func NewCLIHandler(usecase notesin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, title, body string) (dto.NoteOutput, error) {
	return h.usecase.Create(ctx, dto.CreateNoteInput{Title: title, Body: body})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.NoteOutput, error) {
	return h.usecase.List(ctx)
}
