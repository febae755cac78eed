// Package entries declares the Entry Store contract and its PostgreSQL,
// JSON-file and in-memory implementations.
package entries

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

// Repository persists journal entries. Every read and write except OwnerOf is
// scoped to an owner; implementations never return or touch rows belonging
// to a different owner.
type Repository interface {
	// Create stores e, assigning ID and timestamps, and returns the stored row.
	Create(ctx context.Context, e *models.Entry) (*models.Entry, error)

	// ListByOwner returns the owner's entries, newest (highest ID) first.
	// The result is never nil.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error)

	// Delete removes the entry matching id and ownerID and returns the number
	// of rows removed. Zero is not an error.
	Delete(ctx context.Context, id int64, ownerID string) (int64, error)

	// OwnerOf returns the owner of id, or common.ErrorNotFound.
	OwnerOf(ctx context.Context, id int64) (string, error)

	// Update applies the supplied patch fields to the entry matching id and
	// ownerID in a single write. common.ErrorNotFound when nothing matches.
	Update(ctx context.Context, id int64, ownerID string, patch models.EntryPatch) (*models.Entry, error)
}
