package session

import "errors"

var (
	// ErrInvalidSession indicates a malformed or corrupted session record.
	ErrInvalidSession = errors.New("session.invalid")

	// ErrSessionExpired indicates the session has expired.
	ErrSessionExpired = errors.New("session.expired")

	// ErrSessionNotFound indicates no session was found for the token.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrTokenGeneration indicates token generation failed.
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrStorageFailed indicates the backing store rejected an operation.
	ErrStorageFailed = errors.New("session.storage_failed")
)
