package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tempo/internal/modules/notes/domain"
	"tempo/internal/modules/notes/dto"
	"tempo/internal/modules/notes/service"
	"tempo/internal/modules/notes/usecase"
	apperrors "tempo/internal/platform/errors"
)

type fakeNoteAPI struct {
	notes   []domain.Note
	created int
}

func (f *fakeNoteAPI) CreateNote(_ context.Context, note domain.Note) (domain.Note, error) {
	f.created++
	note.ID = f.created
	note.CreatedAt = time.Now()
	f.notes = append([]domain.Note{note}, f.notes...)
	return note, nil
}

func (f *fakeNoteAPI) ListNotes(context.Context) ([]domain.Note, error) {
	return f.notes, nil
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	api := &fakeNoteAPI{}
	uc := usecase.NewInteractor(service.NewNoteService(api))

	_, err := uc.Create(context.Background(), dto.CreateNoteInput{Title: "  ", Body: "something"})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if api.created != 0 {
		t.Fatal("invalid note was dispatched")
	}
}

func TestCreateThenListNewestFirst(t *testing.T) {
	api := &fakeNoteAPI{}
	uc := usecase.NewInteractor(service.NewNoteService(api))

	for _, title := range []string{"first", "second"} {
		if _, err := uc.Create(context.Background(), dto.CreateNoteInput{Title: title}); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}
	notes, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 2 || notes[0].Title != "second" {
		t.Fatalf("notes = %+v", notes)
	}
}
