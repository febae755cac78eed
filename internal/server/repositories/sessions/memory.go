package sessions

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	byToken map[string]models.Session
	persist func(items []models.Session) error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byToken: make(map[string]models.Session)}
}

func (r *MemoryRepository) Create(ctx context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byToken[s.Token]; taken {
		return common.ErrorConflict
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now

	next := maps.Clone(r.byToken)
	next[s.Token] = *s
	return r.commit(next)
}

func (r *MemoryRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byToken[token]; !ok {
		return nil
	}
	next := maps.Clone(r.byToken)
	delete(next, token)
	return r.commit(next)
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := maps.Clone(r.byToken)
	var n int64
	for token, s := range next {
		if s.Expired(now) {
			delete(next, token)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	if err := r.commit(next); err != nil {
		return 0, err
	}
	return n, nil
}

// commit persists next (when a persist hook is set) and only then makes it
// visible.
func (r *MemoryRepository) commit(next map[string]models.Session) error {
	if r.persist != nil {
		out := slices.Collect(maps.Values(next))
		slices.SortFunc(out, func(a, b models.Session) int {
			return a.ExpiresAt.Compare(b.ExpiresAt)
		})
		if err := r.persist(out); err != nil {
			return err
		}
	}
	r.byToken = next
	return nil
}
