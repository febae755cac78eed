// Package common defines shared constants and sentinel errors used across
// client and server layers of gophjournal. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Expected, user-correctable errors. Services wrap them with detail:
	//
	//	fmt.Errorf("%w: title is required", common.ErrorValidation)
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorNotFound     = errors.New("not found")
	ErrorConflict     = errors.New("already exists")

	// Infrastructure fault. Never shown to clients with detail.
	ErrorInternal = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired   = errors.New("token expired")
	ErrSessionExpired = errors.New("session expired")

	// Feature is disabled by configuration.
	ErrNotConfigured = errors.New("not configured")
)
