// Package sessions stores server-side login sessions. A session token is
// both the refresh token and the value of the session cookie.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking sessions.
type Repository interface {
	// Create stores s, assigning an ID when empty.
	Create(ctx context.Context, s *models.Session) error

	// FindByToken returns the session for token or common.ErrorNotFound.
	// Expired sessions are returned as well; callers check ExpiresAt.
	FindByToken(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a session by token. Deleting a non-existent token is
	// not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes sessions that expired at or before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
