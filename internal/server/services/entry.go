// Package services contains the journal's business logic: entry operations
// scoped to an owner, account and session resolution, entry export and the
// expired-session sweeper.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/repomanager"
)

// EntryNotifier receives successful entry mutations.
type EntryNotifier interface {
	Publish(ev models.EntryEvent)
}

// Notifiers fans an event out to every member in order.
type Notifiers []EntryNotifier

func (ns Notifiers) Publish(ev models.EntryEvent) {
	for _, n := range ns {
		n.Publish(ev)
	}
}

// EntryService validates input, enforces ownership and delegates storage to
// the entries repository.
type EntryService struct {
	repomanager repomanager.RepositoryManager
	notifier    EntryNotifier
}

func NewEntryService(m repomanager.RepositoryManager) *EntryService {
	return &EntryService{repomanager: m}
}

// SetNotifier installs n as the receiver of entry events. nil disables
// notifications.
func (s *EntryService) SetNotifier(n EntryNotifier) {
	s.notifier = n
}

// Create stores a new entry for ownerID.
func (s *EntryService) Create(ctx context.Context, ownerID, title, content string) (*models.Entry, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if models.Blank(title) {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if models.Blank(content) {
		return nil, fmt.Errorf("%w: content is required", common.ErrorValidation)
	}

	e, err := s.repo().Create(ctx, &models.Entry{Title: title, Content: content, OwnerID: ownerID})
	if err != nil {
		return nil, storeError("create entry", err)
	}

	s.publish(models.EntryCreated, *e)
	return e, nil
}

// List returns the owner's entries, newest first.
func (s *EntryService) List(ctx context.Context, ownerID string) ([]*models.Entry, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("list entries", err)
	}
	return items, nil
}

// Delete removes the owner's entry. Deleting an id that does not exist
// succeeds; deleting an id owned by someone else is NotFound.
func (s *EntryService) Delete(ctx context.Context, id int64, ownerID string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	repo := s.repo()

	n, err := repo.Delete(ctx, id, ownerID)
	if err != nil {
		return storeError("delete entry", err)
	}
	if n > 0 {
		s.publish(models.EntryDeleted, models.Entry{ID: id, OwnerID: ownerID})
		return nil
	}

	owner, err := repo.OwnerOf(ctx, id)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return nil
	case err != nil:
		return storeError("delete entry", err)
	case owner != ownerID:
		return fmt.Errorf("%w: entry %d", common.ErrorNotFound, id)
	}
	return nil
}

// Update applies the supplied fields of patch. A patch with no fields
// returns the current entry unchanged.
func (s *EntryService) Update(ctx context.Context, id int64, ownerID string, patch models.EntryPatch) (*models.Entry, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if patch.Title != nil && models.Blank(*patch.Title) {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}
	if patch.Content != nil && models.Blank(*patch.Content) {
		return nil, fmt.Errorf("%w: content must not be empty", common.ErrorValidation)
	}

	if patch.Empty() {
		return s.get(ctx, id, ownerID)
	}

	e, err := s.repo().Update(ctx, id, ownerID, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: entry %d", common.ErrorNotFound, id)
		}
		return nil, storeError("update entry", err)
	}

	s.publish(models.EntryUpdated, *e)
	return e, nil
}

func (s *EntryService) get(ctx context.Context, id int64, ownerID string) (*models.Entry, error) {
	items, err := s.repo().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("get entry", err)
	}
	for _, e := range items {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: entry %d", common.ErrorNotFound, id)
}

func (s *EntryService) repo() entries.Repository {
	return s.repomanager.Entries(s.repomanager.DB())
}

func (s *EntryService) publish(t models.EntryEventType, e models.Entry) {
	if s.notifier != nil {
		s.notifier.Publish(models.EntryEvent{Type: t, Entry: e})
	}
}

func requireOwner(ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: anonymous", common.ErrorUnauthorized)
	}
	return nil
}

// storeError marks err as an infrastructure failure while keeping the cause
// for logs.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrorInternal, err)
}
