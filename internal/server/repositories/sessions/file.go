package sessions

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

// NewFileRepository returns a MemoryRepository backed by the JSON array at
// path. Sessions already expired on load are dropped.
func NewFileRepository(path string) (*MemoryRepository, error) {
	items, err := filex.LoadJSONArray[models.Session](path)
	if err != nil {
		return nil, fmt.Errorf("open sessions: %w", err)
	}

	r := NewMemoryRepository()
	now := time.Now()
	for _, s := range items {
		if !s.Expired(now) {
			r.byToken[s.Token] = s
		}
	}
	r.persist = func(items []models.Session) error {
		if err := filex.WriteJSONArray(path, items); err != nil {
			return fmt.Errorf("write sessions: %w", err)
		}
		return nil
	}
	return r, nil
}
