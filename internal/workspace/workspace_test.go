package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/notegenius/notegenius/internal/errs"
	"github.com/notegenius/notegenius/internal/model"
)

// fakeAPI implements the combined collaborator surface in memory, mimicking
// the server's prepend-on-update ordering (most recently updated first).
type fakeAPI struct {
	notes  []model.Note
	nextID int

	listErr   error
	createErr error

	askQuestion string
	askContext  *string
	askAnswer   string
	askErr      error
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) ListNotes(_ context.Context, folder, text string) ([]model.Note, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Note, 0, len(f.notes))
	for _, n := range f.notes {
		if folder != "" && n.Folder != folder {
			continue
		}
		if text != "" {
			lc := strings.ToLower(text)
			if !strings.Contains(strings.ToLower(n.Title), lc) &&
				!strings.Contains(strings.ToLower(n.Content), lc) {
				continue
			}
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeAPI) CreateNote(_ context.Context, draft model.NoteDraft) (model.Note, error) {
	if f.createErr != nil {
		return model.Note{}, f.createErr
	}
	f.nextID++
	n := model.Note{
		ID:      fmt.Sprintf("srv-%d", f.nextID),
		Title:   draft.Title,
		Content: draft.Content,
		Folder:  draft.Folder,
		Tags:    draft.Tags,
	}
	f.notes = append([]model.Note{n}, f.notes...)
	return n, nil
}

func (f *fakeAPI) UpdateNote(_ context.Context, id string, draft model.NoteDraft) (model.Note, error) {
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes[i].Title = draft.Title
			f.notes[i].Content = draft.Content
			f.notes[i].Folder = draft.Folder
			f.notes[i].Tags = draft.Tags
			return f.notes[i], nil
		}
	}
	return model.Note{}, errs.ErrNotFound
}

func (f *fakeAPI) DeleteNote(_ context.Context, id string) error {
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeAPI) AskAI(_ context.Context, question string, contextText *string) (string, error) {
	f.askQuestion, f.askContext = question, contextText
	return f.askAnswer, f.askErr
}

func seeded(n int) *fakeAPI {
	api := &fakeAPI{}
	for i := 1; i <= n; i++ {
		api.notes = append(api.notes, model.Note{
			ID:      fmt.Sprintf("seed-%d", i),
			Title:   fmt.Sprintf("Note %d", i),
			Content: fmt.Sprintf("content %d", i),
			Folder:  "Personal",
		})
	}
	return api
}

func folderCount(t *testing.T, w *Workspace, name string) int {
	t.Helper()
	for _, fs := range w.Folders() {
		if fs.Name == name {
			return fs.Count
		}
	}
	t.Fatalf("folder %q missing from summaries", name)
	return 0
}

func newWS(t *testing.T, api API) *Workspace {
	t.Helper()
	w := New(context.Background(), api, time.Hour, nil)
	t.Cleanup(w.Close)
	return w
}

func TestWorkspace_CreateIncrementsFolderCount(t *testing.T) {
	t.Parallel()
	api := seeded(2)
	w := newWS(t, api)
	ctx := context.Background()
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	before := folderCount(t, w, "Work")

	note, err := w.CreateNote(ctx, model.NoteDraft{
		Title:   "A",
		Content: strings.Repeat("x", 500),
		Folder:  "Work",
		Tags:    []string{"a", " b", " ", "a"},
	})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	wantTags := []string{"a", "b", "a"}
	if len(note.Tags) != len(wantTags) {
		t.Fatalf("tags: want %v, got %v", wantTags, note.Tags)
	}
	for i := range wantTags {
		if note.Tags[i] != wantTags[i] {
			t.Fatalf("tags: want %v, got %v", wantTags, note.Tags)
		}
	}
	if got := folderCount(t, w, "Work"); got != before+1 {
		t.Fatalf("Work count: want %d, got %d", before+1, got)
	}
	if w.Notes()[0].ID != note.ID {
		t.Fatalf("new note must lead the unfiltered view")
	}
}

func TestWorkspace_UpdateMovesFolderCounts(t *testing.T) {
	t.Parallel()
	api := seeded(3)
	w := newWS(t, api)
	ctx := context.Background()
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	id := w.Notes()[1].ID
	if _, err := w.UpdateNote(ctx, id, model.NoteDraft{Title: "Moved", Content: "c", Folder: "Ideas"}); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if got := folderCount(t, w, "Personal"); got != 2 {
		t.Fatalf("Personal count after move: want 2, got %d", got)
	}
	if got := folderCount(t, w, "Ideas"); got != 1 {
		t.Fatalf("Ideas count after move: want 1, got %d", got)
	}
	if w.Notes()[1].ID != id {
		t.Fatalf("updated note must keep its position")
	}
}

func TestWorkspace_UpdateOnServerDeletedNote(t *testing.T) {
	t.Parallel()
	api := seeded(2)
	w := newWS(t, api)
	ctx := context.Background()
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	victim := w.Notes()[0].ID
	// the server loses the note behind the client's back
	if err := api.DeleteNote(ctx, victim); err != nil {
		t.Fatalf("seed delete: %v", err)
	}

	_, err := w.UpdateNote(ctx, victim, model.NoteDraft{Title: "x", Content: "y"})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	for _, n := range w.Notes() {
		if n.ID == victim {
			t.Fatalf("stale entry must be removed from the cache")
		}
	}
	if got := folderCount(t, w, "Personal"); got != 1 {
		t.Fatalf("counts must follow the corrected cache, got %d", got)
	}
}

func TestWorkspace_DeleteClearsSelection(t *testing.T) {
	t.Parallel()
	api := seeded(2)
	w := newWS(t, api)
	ctx := context.Background()
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	id := w.Notes()[0].ID
	w.SelectNote(id)
	if w.SelectedNote() == nil {
		t.Fatalf("selection must resolve before delete")
	}

	if err := w.DeleteNote(ctx, id); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if w.SelectedNote() != nil {
		t.Fatalf("deleting the open note must clear the selection")
	}

	other := w.Notes()[0].ID
	w.SelectNote(other)
	if err := w.DeleteNote(ctx, "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if w.SelectedNote() == nil {
		t.Fatalf("failed delete must not clear an unrelated selection")
	}
}

func TestWorkspace_AskGroundsInUnfilteredSet(t *testing.T) {
	t.Parallel()
	api := seeded(7)
	api.askAnswer = "ok"
	w := newWS(t, api)
	ctx := context.Background()
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// narrow the visible view; the AI context must ignore it
	w.SetFolder("Work")

	answer, err := w.Ask(ctx, "summarize my week", true)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "ok" {
		t.Fatalf("answer: %q", answer)
	}
	if api.askContext == nil {
		t.Fatal("want grounding context")
	}
	entries := strings.Split(*api.askContext, "\n\n")
	if len(entries) != 5 {
		t.Fatalf("context must hold the first 5 unfiltered notes, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0], "Note 1: ") {
		t.Fatalf("context must follow server order, got %q", entries[0])
	}
}

func TestWorkspace_VisibleFollowsSearchResults(t *testing.T) {
	t.Parallel()
	api := seeded(3)
	w := newWS(t, api)
	ctx := context.Background()
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if got := len(w.Visible()); got != 3 {
		t.Fatalf("unfiltered visible: want 3, got %d", got)
	}

	w.SetSearch("content 2")
	w.FlushSearch()

	vis := w.Visible()
	if len(vis) != 1 || vis[0].Content != "content 2" {
		t.Fatalf("visible after search: %v", vis)
	}
}
