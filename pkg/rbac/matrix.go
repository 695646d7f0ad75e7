package rbac

import "context"

// Matrix maps each role to its capability scope set. Extending the matrix
// for a new role or resource is a data change, not a control-flow change:
// the authorizer never special-cases individual roles apart from the
// operational override.
type Matrix map[Role][]string

// DefaultMatrix is the platform's static role/permission assignment.
//
// Operational roles carry the global wildcard for auditability (a capability
// report shows their reach), but their pass-through is still guaranteed by
// the operational override in Check, independent of matrix content.
func DefaultMatrix() Matrix {
	return Matrix{
		RoleSystemAdmin: {"*"},
		RoleDeveloper:   {"*"},
		RoleOrgAdmin: {
			"users.*",
			"organizations.view",
			"organizations.update",
			"assessment_cases.*",
			"reports.*",
			"analytics.view",
		},
		RoleCustomer: {
			"assessment_cases.view",
			"assessment_cases.create",
			"assessment_cases.update",
			"reports.view",
			"reports.create",
		},
		RoleTutor: {
			"assessment_cases.view",
			"assessment_cases.create",
			"assessment_cases.update",
			"reports.view",
			"reports.create",
		},
		RoleDemo: {
			"assessment_cases.view",
			"assessment_cases.create",
			"assessment_cases.update",
			"reports.view",
			"reports.create",
		},
	}
}

// Source provides the capability matrix.
type Source interface {
	// Load returns the full matrix.
	Load(ctx context.Context) (Matrix, error)
}

// staticSource serves an immutable copy of a matrix.
type staticSource struct {
	matrix Matrix
}

// NewStaticSource creates a Source from a fixed matrix. The input is deep
// copied so later mutation by the caller cannot influence decisions.
func NewStaticSource(matrix Matrix) Source {
	cp := make(Matrix, len(matrix))
	for role, caps := range matrix {
		capsCopy := make([]string, len(caps))
		copy(capsCopy, caps)
		cp[role] = capsCopy
	}
	return &staticSource{matrix: cp}
}

func (s *staticSource) Load(ctx context.Context) (Matrix, error) {
	return s.matrix, nil
}
