package search

import (
	"testing"

	"github.com/notegenius/notegenius/internal/model"
)

func sampleNotes() []model.Note {
	return []model.Note{
		{ID: "1", Title: "Sprint planning", Content: "discuss roadmap", Folder: "Work"},
		{ID: "2", Title: "Groceries", Content: "milk, eggs", Folder: "Personal"},
		{ID: "3", Title: "Quarterly review", Content: "team goals and ROADMAP", Folder: "Work"},
		{ID: "4", Title: "App idea", Content: "notes with AI", Folder: "Ideas"},
	}
}

func ids(notes []model.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func eq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	t.Parallel()
	notes := sampleNotes()

	cases := []struct {
		name string
		q    model.Query
		want []string
	}{
		{"empty query returns all", model.Query{}, []string{"1", "2", "3", "4"}},
		{"folder scope preserves order", model.Query{Folder: "Work"}, []string{"1", "3"}},
		{"search is case-insensitive over title and content", model.Query{Search: "roadmap"}, []string{"1", "3"}},
		{"search text is trimmed", model.Query{Search: "  milk  "}, []string{"2"}},
		{"folder and search compose with AND", model.Query{Folder: "Work", Search: "quarterly"}, []string{"3"}},
		{"no match yields empty", model.Query{Search: "nonexistent"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Apply(notes, tc.q))
			if !eq(got, tc.want) {
				t.Fatalf("Apply(%+v) = %v, want %v", tc.q, got, tc.want)
			}
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	notes := sampleNotes()
	_ = Apply(notes, model.Query{Folder: "Work"})
	if notes[1].ID != "2" {
		t.Fatalf("input slice mutated")
	}
}
