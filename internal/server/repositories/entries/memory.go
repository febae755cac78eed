package entries

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

// MemoryRepository keeps entries in process memory, newest first.
// It is safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	items   []models.Entry
	lastID  int64
	now     func() time.Time
	nextID  func(now time.Time, last int64) int64
	persist func(items []models.Entry) error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		now:    time.Now,
		nextID: func(_ time.Time, last int64) int64 { return last + 1 },
	}
}

func (r *MemoryRepository) Create(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	id := r.nextID(now, r.lastID)

	item := models.Entry{
		ID:        id,
		Title:     e.Title,
		Content:   e.Content,
		OwnerID:   e.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	next := make([]models.Entry, 0, len(r.items)+1)
	next = append(next, item)
	next = append(next, r.items...)

	if err := r.commit(next); err != nil {
		return nil, err
	}
	r.lastID = id

	out := item
	return &out, nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Entry, 0)
	for i := range r.items {
		if r.items[i].OwnerID == ownerID {
			item := r.items[i]
			result = append(result, &item)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.Entry, 0, len(r.items))
	var n int64
	for _, item := range r.items {
		if item.ID == id && item.OwnerID == ownerID {
			n++
			continue
		}
		next = append(next, item)
	}
	if n == 0 {
		return 0, nil
	}
	if err := r.commit(next); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *MemoryRepository) OwnerOf(ctx context.Context, id int64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == id {
			return item.OwnerID, nil
		}
	}
	return "", common.ErrorNotFound
}

func (r *MemoryRepository) Update(ctx context.Context, id int64, ownerID string, patch models.EntryPatch) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID != id || r.items[i].OwnerID != ownerID {
			continue
		}

		next := make([]models.Entry, len(r.items))
		copy(next, r.items)
		patch.Apply(&next[i])
		next[i].UpdatedAt = r.now().UTC()

		if err := r.commit(next); err != nil {
			return nil, err
		}
		out := next[i]
		return &out, nil
	}
	return nil, common.ErrorNotFound
}

// commit persists next (when a persist hook is set) and only then makes it
// visible, so a failed write leaves the previous state intact.
func (r *MemoryRepository) commit(next []models.Entry) error {
	if r.persist != nil {
		if err := r.persist(next); err != nil {
			return err
		}
	}
	r.items = next
	return nil
}
