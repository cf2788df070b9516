// Package store is the authoritative in-memory representation of the current
// user's notes. It mirrors server state after each call and preserves server
// ordering; it never re-sorts locally.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/notegenius/notegenius/internal/errs"
	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/search"
)

// NotesAPI is the notes collaborator surface; implemented by api.Client.
type NotesAPI interface {
	ListNotes(ctx context.Context, folder, text string) ([]model.Note, error)
	CreateNote(ctx context.Context, draft model.NoteDraft) (model.Note, error)
	UpdateNote(ctx context.Context, id string, draft model.NoteDraft) (model.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// Store caches the unfiltered note set. Mutating calls are driven by single
// user actions and are expected to run at most one at a time per action; the
// mutex below protects the cache, not that usage contract.
type Store struct {
	api NotesAPI
	log *zap.Logger

	mu    sync.RWMutex
	notes []model.Note
}

// New constructs an empty store backed by the notes API.
func New(api NotesAPI, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{api: api, log: log}
}

// Sync replaces the cache with the server's unfiltered, server-ordered set.
// On failure the previous cache is kept.
func (s *Store) Sync(ctx context.Context) error {
	notes, err := s.api.ListNotes(ctx, "", "")
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
	return nil
}

// Notes returns a copy of the unfiltered cache in server order.
func (s *Store) Notes() []model.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// List returns the cached notes matching the query, in original order.
func (s *Store) List(q model.Query) []model.Note {
	return search.Apply(s.Notes(), q)
}

// Create validates and persists a draft. On success the new note is prepended
// to the cache so unfiltered views and folder counts reflect it immediately;
// on failure the cache is untouched.
func (s *Store) Create(ctx context.Context, draft model.NoteDraft) (model.Note, error) {
	norm, err := normalizeDraft(draft)
	if err != nil {
		return model.Note{}, err
	}
	note, err := s.api.CreateNote(ctx, norm)
	if err != nil {
		return model.Note{}, err
	}

	s.mu.Lock()
	s.removeLocked(note.ID) // id uniqueness guard
	s.notes = append([]model.Note{note}, s.notes...)
	s.mu.Unlock()

	s.log.Info("note created", zap.String("id", note.ID), zap.String("folder", note.Folder))
	return note, nil
}

// Update replaces the editable fields of an existing note. The cache entry is
// replaced in place, keeping its position. When the server no longer knows the
// id, the stale cache entry is dropped and ErrNotFound is returned.
func (s *Store) Update(ctx context.Context, id string, draft model.NoteDraft) (model.Note, error) {
	if id == "" {
		return model.Note{}, fmt.Errorf("%w: empty note id", errs.ErrValidation)
	}
	norm, err := normalizeDraft(draft)
	if err != nil {
		return model.Note{}, err
	}
	note, err := s.api.UpdateNote(ctx, id, norm)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.dropStale(id)
		}
		return model.Note{}, err
	}

	s.mu.Lock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i] = note
			break
		}
	}
	s.mu.Unlock()
	return note, nil
}

// Remove deletes a note. The cache is corrected on ErrNotFound as well, so a
// stale entry never survives a failed delete of a server-side-deleted note.
func (s *Store) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty note id", errs.ErrValidation)
	}
	if err := s.api.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.dropStale(id)
		}
		return err
	}
	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()
	s.log.Info("note removed", zap.String("id", id))
	return nil
}

func (s *Store) dropStale(id string) {
	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()
	s.log.Info("dropped stale note", zap.String("id", id))
}

func (s *Store) removeLocked(id string) {
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return
		}
	}
}

// normalizeDraft enforces draft invariants: non-empty title and content,
// trimmed tags with empties dropped, and the default folder when omitted.
func normalizeDraft(d model.NoteDraft) (model.NoteDraft, error) {
	if strings.TrimSpace(d.Title) == "" {
		return model.NoteDraft{}, fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	if strings.TrimSpace(d.Content) == "" {
		return model.NoteDraft{}, fmt.Errorf("%w: content is required", errs.ErrValidation)
	}
	d.Tags = model.NormalizeTags(d.Tags)
	if d.Folder == "" {
		d.Folder = model.DefaultFolder
	}
	return d, nil
}
