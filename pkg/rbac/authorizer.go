package rbac

import (
	"context"

	"github.com/assesskit/assesskit/pkg/scopes"
)

// Decision reasons surfaced in audit events and deny responses.
const (
	ReasonMatrix              = "matrix"
	ReasonOperationalOverride = "operational_override"
	ReasonNotGranted          = "not_granted"
	ReasonUnknownRole         = "unknown_role"
)

// Decision is the derived, per-request outcome of a permission check. It is
// a pure function of (role, resource, action): no mutable state influences
// the result within a request.
type Decision struct {
	Resource Resource
	Action   Action
	Allowed  bool
	Reason   string
}

// Authorizer answers capability questions against the role matrix.
type Authorizer interface {
	// Check evaluates a single (role, resource, action) triple.
	Check(role Role, resource Resource, action Action) Decision

	// CanAny reports whether the role holds at least one of the given
	// capability scopes. Operational roles always pass.
	CanAny(role Role, permissions ...string) bool

	// Capabilities returns the normalized scope set granted to the role.
	Capabilities(role Role) []string
}

type authorizer struct {
	// capabilities is immutable after construction; that immutability is
	// what makes the authorizer safe to share across requests without locks.
	capabilities map[Role][]string
}

// NewAuthorizer builds an Authorizer from the given source, normalizing each
// role's scope set up front so runtime checks are pure lookups.
func NewAuthorizer(ctx context.Context, source Source) (Authorizer, error) {
	matrix, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	capabilities := make(map[Role][]string, len(matrix))
	for role, caps := range matrix {
		capabilities[role] = scopes.Normalize(caps)
	}

	return &authorizer{capabilities: capabilities}, nil
}

func (a *authorizer) Check(role Role, resource Resource, action Action) Decision {
	decision := Decision{Resource: resource, Action: action}

	// The operational override is evaluated first and is the only privilege
	// escalation path for admin-like roles. Keeping it here, ahead of the
	// matrix lookup, means a matrix misconfiguration can never lock out the
	// operations roles, and there is exactly one place to audit.
	if IsOperationalRole(role) {
		decision.Allowed = true
		decision.Reason = ReasonOperationalOverride
		return decision
	}

	caps, known := a.capabilities[role]
	if !known {
		decision.Reason = ReasonUnknownRole
		return decision
	}

	if scopes.Has(caps, Permission(resource, action)) {
		decision.Allowed = true
		decision.Reason = ReasonMatrix
		return decision
	}

	decision.Reason = ReasonNotGranted
	return decision
}

func (a *authorizer) CanAny(role Role, permissions ...string) bool {
	if IsOperationalRole(role) {
		return true
	}
	caps, known := a.capabilities[role]
	if !known {
		return false
	}
	return scopes.HasAny(caps, permissions)
}

func (a *authorizer) Capabilities(role Role) []string {
	caps := a.capabilities[role]
	out := make([]string, len(caps))
	copy(out, caps)
	return out
}
