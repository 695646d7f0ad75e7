package rbac

import "fmt"

// Role is the closed enumeration of account roles. A role value read from
// storage that is not in this set is a data-integrity failure, not a normal
// authorization outcome; the identity resolver turns it into a 500.
type Role string

const (
	// RoleSystemAdmin is the platform operations role.
	RoleSystemAdmin Role = "system_admin"
	// RoleDeveloper is the engineering operations role.
	RoleDeveloper Role = "developer"
	// RoleOrgAdmin administers a single organization.
	RoleOrgAdmin Role = "org_admin"
	// RoleCustomer is a regular organization member.
	RoleCustomer Role = "customer"
	// RoleDemo is the restricted demonstration account role.
	RoleDemo Role = "demo"
	// RoleTutor is a tutoring-module practitioner.
	RoleTutor Role = "tutor"
)

// knownRoles is the closed set ParseRole validates against.
var knownRoles = map[Role]struct{}{
	RoleSystemAdmin: {},
	RoleDeveloper:   {},
	RoleOrgAdmin:    {},
	RoleCustomer:    {},
	RoleDemo:        {},
	RoleTutor:       {},
}

// ParseRole validates a raw role value against the closed enumeration.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if _, ok := knownRoles[role]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

// operationalRoles is the single source of truth for operational privilege
// escalation. Every bypass of module assignment, organization boundaries, or
// the base capability matrix goes through IsOperationalRole; no gate may
// compare against RoleSystemAdmin or RoleDeveloper directly for bypass
// purposes. Both roles receive identical treatment everywhere.
var operationalRoles = map[Role]struct{}{
	RoleSystemAdmin: {},
	RoleDeveloper:   {},
}

// IsOperationalRole reports whether the role is granted blanket bypass of
// module and organization scoping.
func IsOperationalRole(role Role) bool {
	_, ok := operationalRoles[role]
	return ok
}

// IsDeveloper is the hard predicate for irreversible operational endpoints
// (cache invalidation, raw debug tooling). It is a deliberate role-equality
// check outside the capability matrix: these operations are operational, not
// data-access, concerns, and not even a system admin may reach them.
func IsDeveloper(role Role) bool {
	return role == RoleDeveloper
}
