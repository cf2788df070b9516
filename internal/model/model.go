// Package model defines domain entities shared by the core components.
package model

import (
	"strings"
	"time"
)

// Folders known to the server, in fixed display order. The aggregator emits
// every entry even when its count is zero.
var Folders = []string{"Work", "Personal", "Ideas", "Meeting Notes"}

// DefaultFolder is assigned when a draft omits the folder.
const DefaultFolder = "Personal"

// KnownFolder reports whether name is part of the fixed enumeration.
func KnownFolder(name string) bool {
	for _, f := range Folders {
		if f == name {
			return true
		}
	}
	return false
}

// User is the authenticated identity. AvatarURL may be merged in after an
// independent upload completes; everything else is immutable client-side.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Tokens carries the issued bearer credential and its expiry (for the durable slot).
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Note is a single stored note. The server assigns ID, Summary and both
// timestamps; Summary is read-only on the client.
type Note struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	Folder            string    `json:"folder"`
	Tags              []string  `json:"tags"`
	ScheduledReminder string    `json:"scheduled_reminder,omitempty"`
	Summary           string    `json:"summary,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NoteDraft is the editable field set sent on create and update.
type NoteDraft struct {
	Title             string   `json:"title"`
	Content           string   `json:"content"`
	Folder            string   `json:"folder"`
	Tags              []string `json:"tags"`
	ScheduledReminder string   `json:"scheduled_reminder,omitempty"`
}

// NormalizeTags trims every tag and drops entries that are empty after
// trimming. Insertion order and duplicates are preserved.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FolderSummary is a pure projection of the note set; never mutated directly.
type FolderSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Query is the transient search state owned by the search engine.
type Query struct {
	Folder string // empty means all folders
	Search string // case-insensitive substring over title/content
}

// Empty reports whether the query filters nothing.
func (q Query) Empty() bool {
	return q.Folder == "" && strings.TrimSpace(q.Search) == ""
}
