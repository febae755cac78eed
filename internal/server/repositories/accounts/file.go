package accounts

import (
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

// NewFileRepository returns a MemoryRepository backed by the JSON array at
// path. The file holds password hashes and provider tokens and is written
// with mode 0600.
func NewFileRepository(path string) (*MemoryRepository, error) {
	items, err := filex.LoadJSONArray[models.Account](path)
	if err != nil {
		return nil, fmt.Errorf("open accounts: %w", err)
	}

	r := NewMemoryRepository()
	for _, a := range items {
		r.items[a.ID] = a
	}
	r.persist = func(items []models.Account) error {
		if err := filex.WriteJSONArray(path, items); err != nil {
			return fmt.Errorf("write accounts: %w", err)
		}
		return nil
	}
	return r, nil
}
