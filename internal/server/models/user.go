package models

import "time"

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"email_verified"`
	Image         string    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Account links a user to a way of signing in. ProviderID is "credential"
// for email+password (PasswordHash set) or an OAuth provider name.
// (ProviderID, AccountID) is unique.
type Account struct {
	ID           string
	AccountID    string
	ProviderID   string
	UserID       string
	PasswordHash string
	AccessToken  string
	RefreshToken string
	Scope        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is a server-side login. Token doubles as the refresh token and
// the value of the session cookie.
type Session struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TokenPair is returned by login and refresh. ExpiresAt is the expiry of
// the session behind RefreshToken.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}
