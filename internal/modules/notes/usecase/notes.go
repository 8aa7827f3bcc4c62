package usecase

import (
	"context"
	"fmt"

	"tempo/internal/modules/notes/domain"
	"tempo/internal/modules/notes/dto"
	notesin "tempo/internal/modules/notes/port/in"
	"tempo/internal/modules/notes/service"
	apperrors "tempo/internal/platform/errors"
)

type Interactor struct {
	svc *service.NoteService
}

func NewInteractor(svc *service.NoteService) notesin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateNoteInput) (dto.NoteOutput, error) {
	note := domain.Note{Title: input.Title, Body: input.Body}
	if err := note.Validate(); err != nil {
		return dto.NoteOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	created, err := i.svc.Create(ctx, note)
	if err != nil {
		return dto.NoteOutput{}, err
	}
	return toOutput(created), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.NoteOutput, error) {
	notes, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NoteOutput, 0, len(notes))
	for _, note := range notes {
		out = append(out, toOutput(note))
	}
	return out, nil
}

func toOutput(note domain.Note) dto.NoteOutput {
	return dto.NoteOutput{ID: note.ID, Title: note.Title, Body: note.Body, CreatedAt: note.CreatedAt}
}
