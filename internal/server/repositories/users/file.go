package users

import (
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

// NewFileRepository returns a MemoryRepository loaded from the JSON array at
// path that rewrites the file atomically on every change. A missing file is
// created empty.
func NewFileRepository(path string) (*MemoryRepository, error) {
	items, err := filex.LoadJSONArray[models.User](path)
	if err != nil {
		return nil, fmt.Errorf("open users: %w", err)
	}

	r := NewMemoryRepository()
	byID := make(map[string]models.User, len(items))
	for _, u := range items {
		byID[u.ID] = u
	}
	r.load(byID)
	r.persist = func(items []models.User) error {
		if err := filex.WriteJSONArray(path, items); err != nil {
			return fmt.Errorf("write users: %w", err)
		}
		return nil
	}
	return r, nil
}
