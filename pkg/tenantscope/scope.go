package tenantscope

import "strconv"

// Scope is the tenant filter every storage query must carry. It is derived
// once per request from the resolved identity and never widened afterwards:
// a handler cannot decide to see more tenants than the middleware granted.
type Scope struct {
	// Unrestricted marks operational access across all tenants.
	Unrestricted bool
	// OrgID is the single organization the request may touch.
	OrgID int64
	// CustomerID is the legacy customer alias of that organization.
	CustomerID string
}

// UnrestrictedScope returns the all-tenants scope used by operational roles.
func UnrestrictedScope() Scope {
	return Scope{Unrestricted: true}
}

// ForOrg returns a scope restricted to one organization.
func ForOrg(orgID int64, customerID string) Scope {
	return Scope{OrgID: orgID, CustomerID: customerID}
}

// AppliesTo reports whether a record owned by the given organization is
// visible under this scope.
func (s Scope) AppliesTo(orgID int64) bool {
	return s.Unrestricted || s.OrgID == orgID
}

// CustomerKey returns the customer id stores should filter by. Empty for
// unrestricted scopes, which must not filter at all.
func (s Scope) CustomerKey() string {
	if s.Unrestricted {
		return ""
	}
	return s.CustomerID
}

// DisplayCustomer formats the scope's customer for responses and logs. The
// legacy "system"/"unknown" placeholders live here and only here; they are
// presentation labels and never participate in filtering decisions.
func (s Scope) DisplayCustomer() string {
	if s.Unrestricted {
		return "system"
	}
	if s.CustomerID != "" {
		return s.CustomerID
	}
	if s.OrgID != 0 {
		return strconv.FormatInt(s.OrgID, 10)
	}
	return "unknown"
}
