package out

import (
	"context"

	"tempo/internal/modules/notes/domain"
)

type API interface {
	CreateNote(ctx context.Context, note domain.Note) (domain.Note, error)
	ListNotes(ctx context.Context) ([]domain.Note, error)
}
