package identity

import (
	"context"
	"time"

	"github.com/assesskit/assesskit/pkg/modules"
)

// User is the stored account record. Role is kept raw: the resolver, not the
// store, decides whether the value is a valid role, so a corrupted row
// surfaces as a 500 instead of silently granting or denying.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	OrgID        int64 // 0 for system-level accounts
	ReportCount  int64
	MaxReports   int64 // -1 means unlimited
	Active       bool
	LastLoginAt  time.Time

	// Organization is populated by GetUserWithOrganization for org-scoped
	// accounts; nil otherwise.
	Organization *Organization
}

// Organization is the tenant record. Organizations are soft-deleted only:
// Active=false with the row retained, and the store contract requires zero
// active members before deactivation.
type Organization struct {
	ID         int64
	Name       string
	CustomerID string // legacy alias still used in URLs and exports
	Modules    []modules.Module
	MaxUsers   int64
	Active     bool
}

// UserStore is the storage the identity resolver reads on every request.
type UserStore interface {
	// GetUserWithOrganization fetches the user and, when org-scoped, its
	// organization in one call. Returns ErrUserNotFound for unknown ids.
	GetUserWithOrganization(ctx context.Context, userID int64) (*User, error)

	// GetUserByEmail fetches the user by email for login.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// TouchLastLogin stamps the user's last login time. Bookkeeping only;
	// failures must never affect authorization.
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
}
