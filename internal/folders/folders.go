// Package folders derives the folder -> note-count projection from the
// unfiltered note set.
package folders

import "github.com/notegenius/notegenius/internal/model"

// Recompute groups notes by folder and counts them. Pure: no side effects, no
// partial failure. Known folders appear in fixed enumeration order, each
// present even at count zero; folders the server introduced outside the
// enumeration follow in first-seen order.
func Recompute(notes []model.Note) []model.FolderSummary {
	counts := make(map[string]int, len(model.Folders))
	var extra []string
	for _, n := range notes {
		if _, seen := counts[n.Folder]; !seen && !model.KnownFolder(n.Folder) {
			extra = append(extra, n.Folder)
		}
		counts[n.Folder]++
	}

	out := make([]model.FolderSummary, 0, len(model.Folders)+len(extra))
	for _, name := range model.Folders {
		out = append(out, model.FolderSummary{Name: name, Count: counts[name]})
	}
	for _, name := range extra {
		out = append(out, model.FolderSummary{Name: name, Count: counts[name]})
	}
	return out
}
