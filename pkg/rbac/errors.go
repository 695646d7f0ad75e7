package rbac

import "errors"

// Domain errors for authorization operations.
var (
	// ErrUnknownRole is returned when a role is not in the closed enumeration.
	ErrUnknownRole = errors.New("rbac.unknown_role")

	// ErrInsufficientPermissions is returned when the matrix does not grant
	// the required capability and no override applies.
	ErrInsufficientPermissions = errors.New("rbac.insufficient_permissions")

	// ErrNoSubject is returned when no authenticated subject is in context.
	ErrNoSubject = errors.New("rbac.no_subject_in_context")
)
