package accounts

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	items   map[string]models.Account
	persist func(items []models.Account) error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]models.Account)}
}

func (r *MemoryRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range r.items {
		if it.ProviderID == a.ProviderID && it.AccountID == a.AccountID {
			return nil, common.ErrorConflict
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	next := maps.Clone(r.items)
	next[a.ID] = *a
	if err := r.commit(next); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *MemoryRepository) FindByProvider(ctx context.Context, providerID, accountID string) (*models.Account, error) {
	return r.find(func(a models.Account) bool {
		return a.ProviderID == providerID && a.AccountID == accountID
	})
}

func (r *MemoryRepository) FindByUser(ctx context.Context, userID, providerID string) (*models.Account, error) {
	return r.find(func(a models.Account) bool {
		return a.UserID == userID && a.ProviderID == providerID
	})
}

func (r *MemoryRepository) find(match func(models.Account) bool) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, it := range r.items {
		if match(it) {
			out := it
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken, scope string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return nil
	}
	a.AccessToken, a.RefreshToken, a.Scope = accessToken, refreshToken, scope
	a.UpdatedAt = time.Now().UTC()

	next := maps.Clone(r.items)
	next[id] = a
	return r.commit(next)
}

// commit persists next (when a persist hook is set) and only then makes it
// visible.
func (r *MemoryRepository) commit(next map[string]models.Account) error {
	if r.persist != nil {
		out := slices.Collect(maps.Values(next))
		slices.SortFunc(out, func(a, b models.Account) int {
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
		if err := r.persist(out); err != nil {
			return err
		}
	}
	r.items = next
	return nil
}
