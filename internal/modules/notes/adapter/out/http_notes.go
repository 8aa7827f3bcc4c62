package out

import (
	"context"
	"net/http"

	"tempo/internal/modules/notes/domain"
	notesout "tempo/internal/modules/notes/port/out"
	"tempo/internal/platform/api"
)

type HTTPNoteAPI struct {
	channel *api.Channel
}

func NewHTTPNoteAPI(channel *api.Channel) notesout.API {
	return &HTTPNoteAPI{channel: channel}
}

type notePayload struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Body      string   `json:"body,omitempty"`
	CreatedAt api.Time `json:"created_at,omitempty"`
}

func (a *HTTPNoteAPI) CreateNote(ctx context.Context, note domain.Note) (domain.Note, error) {
	body := map[string]string{"title": note.Title, "body": note.Body}
	var resp notePayload
	err := a.channel.Do(ctx, api.Request{Method: http.MethodPost, Path: "/notes/", Body: body}, &resp)
	if err != nil {
		return domain.Note{}, err
	}
	return resp.toDomain(), nil
}

func (a *HTTPNoteAPI) ListNotes(ctx context.Context) ([]domain.Note, error) {
	var resp []notePayload
	err := a.channel.Do(ctx, api.Request{Method: http.MethodGet, Path: "/notes/"}, &resp)
	if err != nil {
		return nil, err
	}
	notes := make([]domain.Note, 0, len(resp))
	for _, payload := range resp {
		notes = append(notes, payload.toDomain())
	}
	return notes, nil
}

func (p notePayload) toDomain() domain.Note {
	return domain.Note{ID: p.ID, Title: p.Title, Body: p.Body, CreatedAt: p.CreatedAt.Std()}
}
