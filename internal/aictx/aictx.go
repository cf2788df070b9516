// Package aictx builds the bounded grounding payload for AI questions from
// the user's most recent notes.
package aictx

import (
	"context"
	"strings"

	"github.com/notegenius/notegenius/internal/model"
)

const (
	// ContextNotes is the number of notes included in a grounding payload.
	ContextNotes = 5
	// ContentCap is the hard per-note content cap, in characters. Truncation
	// is not word-boundary aware; the cap is exact for reproducibility.
	ContentCap = 200
)

// BuildContext assembles the grounding payload from the unfiltered,
// server-ordered note list. It returns nil when no context is requested, and
// a pointer to the empty string when context is requested but no notes exist;
// the two are distinct on the wire.
func BuildContext(notes []model.Note, useContext bool) *string {
	if !useContext {
		return nil
	}
	if len(notes) > ContextNotes {
		notes = notes[:ContextNotes]
	}
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, n.Title+": "+truncate(n.Content, ContentCap))
	}
	ctx := strings.Join(parts, "\n\n")
	return &ctx
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// AskAPI is the AI collaborator surface; implemented by api.Client.
type AskAPI interface {
	AskAI(ctx context.Context, question string, contextText *string) (string, error)
}

// NoteSource provides the current unfiltered note set in server order.
type NoteSource interface {
	Notes() []model.Note
}

// Assembler grounds questions in the note store's full set, never the
// search-filtered view.
type Assembler struct {
	ai    AskAPI
	notes NoteSource
}

// NewAssembler wires the assembler to its collaborators.
func NewAssembler(ai AskAPI, notes NoteSource) *Assembler {
	return &Assembler{ai: ai, notes: notes}
}

// Ask submits one question, optionally grounded. A failure is surfaced as-is;
// the caller must not retry automatically — the user re-submits manually.
func (a *Assembler) Ask(ctx context.Context, question string, useContext bool) (string, error) {
	return a.ai.AskAI(ctx, question, BuildContext(a.notes.Notes(), useContext))
}
