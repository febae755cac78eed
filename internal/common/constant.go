// Package common contains shared constants and sentinel errors used across
// gophjournal components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SessionCookieName is the HTTP cookie holding the opaque session token.
const SessionCookieName = "journal_session"

// Provider identifiers stored in accounts.provider_id.
const (
	ProviderCredential = "credential"
	ProviderGoogle     = "google"
)
