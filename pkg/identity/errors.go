package identity

import "errors"

var (
	// ErrUserNotFound indicates no user exists for the id or email.
	ErrUserNotFound = errors.New("identity.user_not_found")

	// ErrRoleIntegrity indicates the stored role value is outside the known
	// role set. This is data corruption, not a permission decision.
	ErrRoleIntegrity = errors.New("identity.role_integrity")

	// ErrStorageFailed indicates the backing store failed.
	ErrStorageFailed = errors.New("identity.storage_failed")
)
