package identity

import (
	"slices"
	"time"

	"github.com/assesskit/assesskit/pkg/modules"
	"github.com/assesskit/assesskit/pkg/rbac"
)

// Identity is the fully resolved, request-scoped view of the acting user.
// It is built once per request from a fresh storage read and never mutated;
// every authorization stage downstream reads this value instead of touching
// storage again.
type Identity struct {
	UserID      int64
	Role        rbac.Role
	OrgID       int64 // 0 when the role is not organization-scoped
	OrgName     string
	CustomerID  string // legacy customer alias of the organization
	Modules     []modules.Module
	ReportCount int64
	MaxReports  int64 // -1 means unlimited
	Active      bool
	LastLoginAt time.Time
}

// SubjectID implements rbac.Subject.
func (i Identity) SubjectID() int64 { return i.UserID }

// SubjectRole implements rbac.Subject.
func (i Identity) SubjectRole() rbac.Role { return i.Role }

// SubjectOrg implements rbac.Subject.
func (i Identity) SubjectOrg() (int64, bool) { return i.OrgID, i.OrgID != 0 }

// SubjectCustomer implements rbac.Subject.
func (i Identity) SubjectCustomer() string { return i.CustomerID }

// HasModule reports whether the module is in the identity's effective set.
func (i Identity) HasModule(m modules.Module) bool {
	return slices.Contains(i.Modules, m)
}

// Equal reports whether two identities are the same resolved view. Used to
// verify resolver idempotence.
func (i Identity) Equal(other Identity) bool {
	return i.UserID == other.UserID &&
		i.Role == other.Role &&
		i.OrgID == other.OrgID &&
		i.OrgName == other.OrgName &&
		i.CustomerID == other.CustomerID &&
		slices.Equal(i.Modules, other.Modules) &&
		i.ReportCount == other.ReportCount &&
		i.MaxReports == other.MaxReports &&
		i.Active == other.Active &&
		i.LastLoginAt.Equal(other.LastLoginAt)
}
