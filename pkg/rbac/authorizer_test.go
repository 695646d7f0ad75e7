package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assesskit/assesskit/pkg/rbac"
)

func newTestAuthorizer(t *testing.T) rbac.Authorizer {
	t.Helper()
	a, err := rbac.NewAuthorizer(context.Background(), rbac.NewStaticSource(rbac.DefaultMatrix()))
	require.NoError(t, err)
	return a
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"system_admin", "developer", "org_admin", "customer", "demo", "tutor"} {
		role, err := rbac.ParseRole(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, rbac.Role(raw), role)
	}

	_, err := rbac.ParseRole("superuser")
	assert.ErrorIs(t, err, rbac.ErrUnknownRole)

	_, err = rbac.ParseRole("")
	assert.ErrorIs(t, err, rbac.ErrUnknownRole)
}

func TestIsOperationalRole(t *testing.T) {
	t.Parallel()

	// system_admin and developer receive identical bypass treatment; this is
	// the one table every escalation path consults.
	assert.True(t, rbac.IsOperationalRole(rbac.RoleSystemAdmin))
	assert.True(t, rbac.IsOperationalRole(rbac.RoleDeveloper))
	assert.False(t, rbac.IsOperationalRole(rbac.RoleOrgAdmin))
	assert.False(t, rbac.IsOperationalRole(rbac.RoleCustomer))
	assert.False(t, rbac.IsOperationalRole(rbac.RoleDemo))
	assert.False(t, rbac.IsOperationalRole(rbac.RoleTutor))

	assert.True(t, rbac.IsDeveloper(rbac.RoleDeveloper))
	assert.False(t, rbac.IsDeveloper(rbac.RoleSystemAdmin), "IsDeveloper is a hard equality, not the operational set")
}

func TestAuthorizerCheck(t *testing.T) {
	t.Parallel()

	a := newTestAuthorizer(t)

	tests := []struct {
		name     string
		role     rbac.Role
		resource rbac.Resource
		action   rbac.Action
		allowed  bool
		reason   string
	}{
		{"org admin manages its users", rbac.RoleOrgAdmin, rbac.ResourceUsers, rbac.ActionDelete, true, rbac.ReasonMatrix},
		{"customer creates cases", rbac.RoleCustomer, rbac.ResourceAssessmentCases, rbac.ActionCreate, true, rbac.ReasonMatrix},
		{"customer cannot delete cases", rbac.RoleCustomer, rbac.ResourceAssessmentCases, rbac.ActionDelete, false, rbac.ReasonNotGranted},
		{"customer cannot touch system config", rbac.RoleCustomer, rbac.ResourceSystemConfig, rbac.ActionView, false, rbac.ReasonNotGranted},
		{"tutor cannot manage organizations", rbac.RoleTutor, rbac.ResourceOrganizations, rbac.ActionManage, false, rbac.ReasonNotGranted},
		{"demo cannot view analytics", rbac.RoleDemo, rbac.ResourceAnalytics, rbac.ActionView, false, rbac.ReasonNotGranted},
		{"system admin passes via override", rbac.RoleSystemAdmin, rbac.ResourceDatabase, rbac.ActionManage, true, rbac.ReasonOperationalOverride},
		{"developer passes via override", rbac.RoleDeveloper, rbac.ResourcePrompts, rbac.ActionDelete, true, rbac.ReasonOperationalOverride},
		{"unknown role denied", rbac.Role("ghost"), rbac.ResourceUsers, rbac.ActionView, false, rbac.ReasonUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := a.Check(tt.role, tt.resource, tt.action)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestAuthorizerCheckIsExhaustiveForUngrantedPairs(t *testing.T) {
	t.Parallel()

	a := newTestAuthorizer(t)

	// Every (role, resource, action) not in the matrix and not covered by
	// the operational override must be denied.
	resources := []rbac.Resource{
		rbac.ResourceUsers, rbac.ResourceOrganizations, rbac.ResourceSystemConfig,
		rbac.ResourcePrompts, rbac.ResourceDatabase, rbac.ResourceAnalytics,
		rbac.ResourceReports, rbac.ResourceAssessmentCases,
	}
	actions := []rbac.Action{
		rbac.ActionView, rbac.ActionCreate, rbac.ActionUpdate, rbac.ActionDelete, rbac.ActionManage,
	}

	for _, role := range []rbac.Role{rbac.RoleOrgAdmin, rbac.RoleCustomer, rbac.RoleDemo, rbac.RoleTutor} {
		caps := a.Capabilities(role)
		for _, resource := range resources {
			for _, action := range actions {
				d := a.Check(role, resource, action)
				if d.Allowed {
					assert.Equal(t, rbac.ReasonMatrix, d.Reason,
						"non-operational role %s may only be allowed by the matrix", role)
					continue
				}
				// Denied pairs must not appear in the capability set.
				assert.NotContains(t, caps, rbac.Permission(resource, action))
			}
		}
	}
}

func TestAuthorizerCanAny(t *testing.T) {
	t.Parallel()

	a := newTestAuthorizer(t)

	assert.True(t, a.CanAny(rbac.RoleOrgAdmin, "users.view", "database.view"))
	assert.False(t, a.CanAny(rbac.RoleCustomer, "system_config.view", "database.view"))
	assert.True(t, a.CanAny(rbac.RoleDeveloper, "system_config.view"), "operational roles always pass")
	assert.False(t, a.CanAny(rbac.Role("ghost"), "users.view"))
}

func TestMatrixIsDataNotControlFlow(t *testing.T) {
	t.Parallel()

	// Granting a capability is purely a matrix edit.
	matrix := rbac.DefaultMatrix()
	matrix[rbac.RoleTutor] = append(matrix[rbac.RoleTutor], "analytics.view")

	a, err := rbac.NewAuthorizer(context.Background(), rbac.NewStaticSource(matrix))
	require.NoError(t, err)

	assert.True(t, a.Check(rbac.RoleTutor, rbac.ResourceAnalytics, rbac.ActionView).Allowed)
}

func TestStaticSourceCopiesInput(t *testing.T) {
	t.Parallel()

	matrix := rbac.Matrix{rbac.RoleCustomer: {"reports.view"}}
	source := rbac.NewStaticSource(matrix)

	// Mutating the caller's matrix after construction must not change
	// decisions.
	matrix[rbac.RoleCustomer][0] = "reports.delete"

	a, err := rbac.NewAuthorizer(context.Background(), source)
	require.NoError(t, err)
	assert.True(t, a.Check(rbac.RoleCustomer, rbac.ResourceReports, rbac.ActionView).Allowed)
	assert.False(t, a.Check(rbac.RoleCustomer, rbac.ResourceReports, rbac.ActionDelete).Allowed)
}
