// Package models defines the journal's persisted data model.
package models

import (
	"strings"
	"time"
)

// Entry is a single journal record. It is visible and mutable only by the
// user referenced by OwnerID.
type Entry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryPatch is an explicit partial update. A nil field is left unchanged.
type EntryPatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.Title == nil && p.Content == nil
}

// Apply copies the supplied fields onto e.
func (p EntryPatch) Apply(e *Entry) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// EntryEventType names a mutation published to live subscribers.
type EntryEventType string

const (
	EntryCreated EntryEventType = "created"
	EntryUpdated EntryEventType = "updated"
	EntryDeleted EntryEventType = "deleted"
)

// EntryEvent is broadcast to the owner's live feed after a successful write.
// For deletions only Entry.ID and Entry.OwnerID are set.
type EntryEvent struct {
	Type  EntryEventType `json:"type"`
	Entry Entry          `json:"entry"`
}

// ExportResult points at an uploaded snapshot of a user's entries.
type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
