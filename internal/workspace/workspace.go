// Package workspace is the caller layer tying the note store, folder
// aggregator, search engine and context assembler together. It owns the
// explicit recompute-after-mutation ordering the components themselves do not.
package workspace

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/notegenius/notegenius/internal/aictx"
	"github.com/notegenius/notegenius/internal/folders"
	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/search"
	"github.com/notegenius/notegenius/internal/store"
)

// API is the combined collaborator surface the workspace needs.
type API interface {
	store.NotesAPI
	aictx.AskAPI
}

// Workspace coordinates the stateful core for one authenticated user.
type Workspace struct {
	store  *store.Store
	engine *search.Engine
	ai     *aictx.Assembler
	log    *zap.Logger

	mu       sync.RWMutex
	folders  []model.FolderSummary
	selected string // id of the currently open note, "" when none
}

// New wires the core components. ctx bounds the engine's debounced fetches.
func New(ctx context.Context, api API, debounce time.Duration, log *zap.Logger) *Workspace {
	if log == nil {
		log = zap.NewNop()
	}
	st := store.New(api, log)
	fetch := func(ctx context.Context, q model.Query) ([]model.Note, error) {
		return api.ListNotes(ctx, q.Folder, strings.TrimSpace(q.Search))
	}
	return &Workspace{
		store:  st,
		engine: search.NewEngine(ctx, fetch, debounce, log),
		ai:     aictx.NewAssembler(api, st),
		log:    log,
	}
}

// Refresh loads the unfiltered note set and recomputes folder counts.
func (w *Workspace) Refresh(ctx context.Context) error {
	if err := w.store.Sync(ctx); err != nil {
		return err
	}
	w.recomputeFolders()
	return nil
}

// Notes returns the unfiltered cache in server order.
func (w *Workspace) Notes() []model.Note { return w.store.Notes() }

// Visible returns the note subset the user currently sees: the latest
// server-fetched search results when a search has run, otherwise the local
// filter of the cache under the current query.
func (w *Workspace) Visible() []model.Note {
	if w.engine.HasResults() {
		return w.engine.Results()
	}
	return w.store.List(w.engine.Query())
}

// Folders returns the current folder summaries.
func (w *Workspace) Folders() []model.FolderSummary {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]model.FolderSummary, len(w.folders))
	copy(out, w.folders)
	return out
}

// CreateNote persists a draft and recomputes folder counts; the recompute is
// an explicit follow-up to the successful mutation, not a hidden side effect
// of the store.
func (w *Workspace) CreateNote(ctx context.Context, draft model.NoteDraft) (model.Note, error) {
	note, err := w.store.Create(ctx, draft)
	if err != nil {
		return model.Note{}, err
	}
	w.recomputeFolders()
	return note, nil
}

// UpdateNote replaces a note's editable fields and recomputes folder counts.
func (w *Workspace) UpdateNote(ctx context.Context, id string, draft model.NoteDraft) (model.Note, error) {
	note, err := w.store.Update(ctx, id, draft)
	if err != nil {
		// a stale cache entry may have been dropped; counts must follow
		w.recomputeFolders()
		return model.Note{}, err
	}
	w.recomputeFolders()
	return note, nil
}

// DeleteNote removes a note, clears the selection if it pointed at the removed
// note, and recomputes folder counts.
func (w *Workspace) DeleteNote(ctx context.Context, id string) error {
	err := w.store.Remove(ctx, id)
	if err == nil {
		w.mu.Lock()
		if w.selected == id {
			w.selected = ""
		}
		w.mu.Unlock()
	}
	w.recomputeFolders()
	return err
}

// SelectNote marks a note as the currently open one.
func (w *Workspace) SelectNote(id string) {
	w.mu.Lock()
	w.selected = id
	w.mu.Unlock()
}

// SelectedNote returns the open note, or nil when none is selected or the
// selection no longer exists in the cache.
func (w *Workspace) SelectedNote() *model.Note {
	w.mu.RLock()
	id := w.selected
	w.mu.RUnlock()
	if id == "" {
		return nil
	}
	for _, n := range w.store.Notes() {
		if n.ID == id {
			c := n
			return &c
		}
	}
	return nil
}

// SetFolder scopes the visible set to a folder ("" for all) and dispatches a
// fetch immediately.
func (w *Workspace) SetFolder(folder string) { w.engine.SetFolder(folder) }

// SetSearch feeds a keystroke into the debounced search.
func (w *Workspace) SetSearch(text string) { w.engine.SetSearch(text) }

// FlushSearch dispatches a pending debounced search immediately.
func (w *Workspace) FlushSearch() { w.engine.Flush() }

// Ask grounds a question in the unfiltered note set (when requested) and
// submits it to the AI capability. Single attempt.
func (w *Workspace) Ask(ctx context.Context, question string, useContext bool) (string, error) {
	return w.ai.Ask(ctx, question, useContext)
}

// Close releases the engine's timer.
func (w *Workspace) Close() { w.engine.Close() }

func (w *Workspace) recomputeFolders() {
	sums := folders.Recompute(w.store.Notes())
	w.mu.Lock()
	w.folders = sums
	w.mu.Unlock()
}
