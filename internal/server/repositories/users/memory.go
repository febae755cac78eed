package users

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

// MemoryRepository keeps users in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
	persist func(items []models.User) error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return nil, common.ErrorConflict
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	next := maps.Clone(r.byID)
	next[user.ID] = *user
	if err := r.commit(next); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) MarkEmailVerified(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.EmailVerified = true
	u.UpdatedAt = time.Now().UTC()

	next := maps.Clone(r.byID)
	next[id] = u
	return r.commit(next)
}

// commit persists next (when a persist hook is set) and only then makes it
// visible, so a failed write leaves the previous state intact.
func (r *MemoryRepository) commit(next map[string]models.User) error {
	if r.persist != nil {
		if err := r.persist(sortedUsers(next)); err != nil {
			return err
		}
	}
	r.load(next)
	return nil
}

func (r *MemoryRepository) load(byID map[string]models.User) {
	r.byID = byID
	r.byEmail = make(map[string]string, len(byID))
	for id, u := range byID {
		r.byEmail[u.Email] = id
	}
}

func sortedUsers(byID map[string]models.User) []models.User {
	out := slices.Collect(maps.Values(byID))
	slices.SortFunc(out, func(a, b models.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
