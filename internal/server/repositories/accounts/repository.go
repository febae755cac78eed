// Package accounts stores sign-in methods linked to users: the email and
// password credential and OAuth provider links.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

type Repository interface {
	// Create inserts a, assigning an ID when empty. A second account with the
	// same (ProviderID, AccountID) yields common.ErrorConflict.
	Create(ctx context.Context, a *models.Account) (*models.Account, error)

	// FindByProvider looks an account up by provider and provider-side id.
	FindByProvider(ctx context.Context, providerID, accountID string) (*models.Account, error)

	// FindByUser returns the user's account for providerID.
	FindByUser(ctx context.Context, userID, providerID string) (*models.Account, error)

	// UpdateTokens stores fresh provider tokens.
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken, scope string) error
}
