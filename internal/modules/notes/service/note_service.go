package service

import (
	"context"
	"fmt"

	"tempo/internal/modules/notes/domain"
	notesout "tempo/internal/modules/notes/port/out"
)

type NoteService struct {
	api notesout.API
}

func NewNoteService(apiPort notesout.API) *NoteService {
	return &NoteService{api: apiPort}
}

func (s *NoteService) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	created, err := s.api.CreateNote(ctx, note)
	if err != nil {
		return domain.Note{}, fmt.Errorf("create note: %w", err)
	}
	return created, nil
}

func (s *NoteService) List(ctx context.Context) ([]domain.Note, error) {
	notes, err := s.api.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}
