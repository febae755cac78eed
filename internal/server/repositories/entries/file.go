package entries

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

// FileRepository stores all entries as a JSON array in a single flat file,
// newest first. Every mutation rewrites the file atomically.
//
// IDs are max(unix millis, last id + 1), so they stay unique and increasing
// across restarts.
type FileRepository struct {
	*MemoryRepository
	path string
}

// NewFileRepository opens path, creating it with "[]" when missing.
func NewFileRepository(path string) (*FileRepository, error) {
	items, err := filex.LoadJSONArray[models.Entry](path)
	if err != nil {
		return nil, fmt.Errorf("open entries: %w", err)
	}

	mem := NewMemoryRepository()
	mem.items = items
	for _, item := range items {
		if item.ID > mem.lastID {
			mem.lastID = item.ID
		}
	}
	mem.nextID = func(now time.Time, last int64) int64 {
		return max(now.UnixMilli(), last+1)
	}
	mem.persist = func(items []models.Entry) error {
		if err := filex.WriteJSONArray(path, items); err != nil {
			return fmt.Errorf("write entries: %w", err)
		}
		return nil
	}

	return &FileRepository{MemoryRepository: mem, path: path}, nil
}

// Path returns the backing file.
func (r *FileRepository) Path() string { return r.path }
