// Package search computes the visible note subset from query state and
// schedules debounced re-fetches so rapid keystrokes collapse into one
// request.
package search

import (
	"strings"

	"github.com/notegenius/notegenius/internal/model"
)

// Apply filters notes by the query. Folder scope and search text compose with
// AND; matching is a case-insensitive substring test over title and content.
// Order is preserved.
func Apply(notes []model.Note, q model.Query) []model.Note {
	text := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if q.Folder != "" && n.Folder != q.Folder {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(n.Title), text) &&
			!strings.Contains(strings.ToLower(n.Content), text) {
			continue
		}
		out = append(out, n)
	}
	return out
}
