// Package users stores journal user profiles.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

type Repository interface {
	// Create inserts user, assigning an ID when empty. A taken email yields
	// common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// MarkEmailVerified sets email_verified for id.
	MarkEmailVerified(ctx context.Context, id string) error
}
