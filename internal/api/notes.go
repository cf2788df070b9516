package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/notegenius/notegenius/internal/model"
)

// ListNotes returns notes in server order (most recently updated first),
// optionally scoped by folder and case-insensitive search text. Either filter
// may be empty.
func (c *Client) ListNotes(ctx context.Context, folder, search string) ([]model.Note, error) {
	q := url.Values{}
	if folder != "" {
		q.Set("folder", folder)
	}
	if search != "" {
		q.Set("search", search)
	}
	var notes []model.Note
	if err := c.do(ctx, http.MethodGet, "/notes", q, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote persists a new note; the server assigns id, summary and timestamps.
func (c *Client) CreateNote(ctx context.Context, draft model.NoteDraft) (model.Note, error) {
	var n model.Note
	if err := c.do(ctx, http.MethodPost, "/notes", nil, draft, &n); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

// UpdateNote replaces the editable fields of an existing note.
func (c *Client) UpdateNote(ctx context.Context, id string, draft model.NoteDraft) (model.Note, error) {
	var n model.Note
	if err := c.do(ctx, http.MethodPut, "/notes/"+id, nil, draft, &n); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

// DeleteNote removes a note. Unknown ids map to ErrNotFound.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+id, nil, nil, nil)
}

// SummarizeNote asks the server to regenerate the AI summary for a note.
func (c *Client) SummarizeNote(ctx context.Context, id string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	if err := c.do(ctx, http.MethodPost, "/notes/"+id+"/summarize", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}
