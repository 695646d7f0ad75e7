package rbac_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assesskit/assesskit/pkg/audit"
	"github.com/assesskit/assesskit/pkg/rbac"
)

type testSubject struct {
	id       int64
	role     rbac.Role
	orgID    int64
	hasOrg   bool
	customer string
}

func (s testSubject) SubjectID() int64          { return s.id }
func (s testSubject) SubjectRole() rbac.Role    { return s.role }
func (s testSubject) SubjectOrg() (int64, bool) { return s.orgID, s.hasOrg }
func (s testSubject) SubjectCustomer() string   { return s.customer }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// serveWith runs a request through the middleware, optionally attaching a
// subject first.
func serveWith(t *testing.T, mw func(http.Handler) http.Handler, subject rbac.Subject, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if subject != nil {
		req = req.WithContext(rbac.WithSubject(req.Context(), subject))
	}
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestEnforce(t *testing.T) {
	t.Parallel()

	a := newTestAuthorizer(t)

	t.Run("no subject is 401 before any capability evaluation", func(t *testing.T) {
		t.Parallel()
		mw := rbac.Enforce(a, rbac.ResourceAssessmentCases, rbac.ActionView)
		rec := serveWith(t, mw, nil, http.MethodGet, "/assessment-cases")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "AUTHENTICATION_REQUIRED", body["code"])
		// The response must not leak what the route would have required.
		assert.NotContains(t, body, "requiredPermission")
	})

	t.Run("capability missing is 403 with diagnostics", func(t *testing.T) {
		t.Parallel()
		mw := rbac.Enforce(a, rbac.ResourceAssessmentCases, rbac.ActionDelete)
		subject := testSubject{id: 7, role: rbac.RoleCustomer, orgID: 1, hasOrg: true}
		rec := serveWith(t, mw, subject, http.MethodDelete, "/assessment-cases/42")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "INSUFFICIENT_PERMISSIONS", body["code"])
		assert.Equal(t, "assessment_cases.delete", body["requiredPermission"])
		assert.Equal(t, "customer", body["currentRole"])
	})

	t.Run("granted capability passes through", func(t *testing.T) {
		t.Parallel()
		mw := rbac.Enforce(a, rbac.ResourceAssessmentCases, rbac.ActionCreate)
		subject := testSubject{id: 7, role: rbac.RoleCustomer, orgID: 1, hasOrg: true}
		rec := serveWith(t, mw, subject, http.MethodPost, "/assessment-cases")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("operational role passes any gate", func(t *testing.T) {
		t.Parallel()
		mw := rbac.Enforce(a, rbac.ResourceDatabase, rbac.ActionManage)
		rec := serveWith(t, mw, testSubject{id: 1, role: rbac.RoleDeveloper}, http.MethodPost, "/system/database")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("quota precondition runs after the capability check", func(t *testing.T) {
		t.Parallel()
		quotaErr := errors.New("quota.exceeded")
		mw := rbac.Enforce(a, rbac.ResourceReports, rbac.ActionCreate,
			rbac.WithQuotaCheck(func(ctx context.Context) error { return quotaErr }),
		)

		subject := testSubject{id: 7, role: rbac.RoleCustomer, orgID: 1, hasOrg: true}
		rec := serveWith(t, mw, subject, http.MethodPost, "/assessment-cases/42/reports")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "QUOTA_EXCEEDED", decodeBody(t, rec)["code"])

		// A role without the capability never reaches the quota check.
		mwGated := rbac.Enforce(a, rbac.ResourceAnalytics, rbac.ActionView,
			rbac.WithQuotaCheck(func(ctx context.Context) error { return quotaErr }),
		)
		recDenied := serveWith(t, mwGated, testSubject{id: 8, role: rbac.RoleDemo}, http.MethodGet, "/admin/analytics")
		assert.Equal(t, http.StatusForbidden, recDenied.Code)
		assert.Equal(t, "INSUFFICIENT_PERMISSIONS", decodeBody(t, recDenied)["code"])
	})

	t.Run("denials are audited", func(t *testing.T) {
		t.Parallel()
		storage := audit.NewMemoryStorage()
		auditLog := audit.NewLogger(storage)

		mw := rbac.Enforce(a, rbac.ResourceAnalytics, rbac.ActionView, rbac.WithAuditLogger(auditLog))
		subject := testSubject{id: 7, role: rbac.RoleDemo, orgID: 1, hasOrg: true}
		rec := serveWith(t, mw, subject, http.MethodGet, "/admin/analytics")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		events := storage.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "authorization.denied", events[0].Action)
		assert.Equal(t, audit.ResultDenied, events[0].Result)
		assert.Equal(t, "analytics.view", events[0].Resource)
		assert.Equal(t, http.MethodGet, events[0].Method)
		assert.Equal(t, "/admin/analytics", events[0].Path)
	})
}

func TestEnforceUserManagement(t *testing.T) {
	t.Parallel()

	a := newTestAuthorizer(t)

	// Routes are mounted through chi so the org URL parameter resolves the
	// way it does in production wiring.
	newRouter := func(action rbac.Action) chi.Router {
		r := chi.NewRouter()
		r.With(rbac.EnforceUserManagement(a, action, "orgID")).
			Handle("/organizations/{orgID}/users", okHandler())
		r.With(rbac.EnforceUserManagement(a, action, "orgID")).
			Handle("/users", okHandler())
		return r
	}

	serve := func(t *testing.T, router chi.Router, subject rbac.Subject, target string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if subject != nil {
			req = req.WithContext(rbac.WithSubject(req.Context(), subject))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("org admin manages own organization", func(t *testing.T) {
		t.Parallel()
		subject := testSubject{id: 3, role: rbac.RoleOrgAdmin, orgID: 1, hasOrg: true, customer: "org-1"}
		rec := serve(t, newRouter(rbac.ActionView), subject, "/organizations/1/users")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("org admin crossing the boundary is 403 with both identifiers", func(t *testing.T) {
		t.Parallel()
		subject := testSubject{id: 3, role: rbac.RoleOrgAdmin, orgID: 1, hasOrg: true, customer: "org-1"}
		rec := serve(t, newRouter(rbac.ActionView), subject, "/organizations/org-2/users")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "ORGANIZATION_BOUNDARY", body["code"])
		assert.Equal(t, "org-2", body["requestedOrganization"])
		assert.Equal(t, "org-1", body["userOrganization"])
	})

	t.Run("numeric id crossing the boundary is also caught", func(t *testing.T) {
		t.Parallel()
		subject := testSubject{id: 3, role: rbac.RoleOrgAdmin, orgID: 1, hasOrg: true}
		rec := serve(t, newRouter(rbac.ActionView), subject, "/organizations/2/users")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "ORGANIZATION_BOUNDARY", body["code"])
		assert.Equal(t, "2", body["requestedOrganization"])
		assert.Equal(t, "1", body["userOrganization"])
	})

	t.Run("capability check precedes the boundary check", func(t *testing.T) {
		t.Parallel()
		// A customer has no users.view at all; the deny must be the generic
		// permission code, not the boundary one.
		subject := testSubject{id: 9, role: rbac.RoleCustomer, orgID: 2, hasOrg: true}
		rec := serve(t, newRouter(rbac.ActionView), subject, "/organizations/1/users")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "INSUFFICIENT_PERMISSIONS", decodeBody(t, rec)["code"])
	})

	t.Run("operational role crosses organizations freely", func(t *testing.T) {
		t.Parallel()
		subject := testSubject{id: 1, role: rbac.RoleSystemAdmin}
		rec := serve(t, newRouter(rbac.ActionDelete), subject, "/organizations/42/users")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("route without an org parameter skips the boundary", func(t *testing.T) {
		t.Parallel()
		subject := testSubject{id: 3, role: rbac.RoleOrgAdmin, orgID: 1, hasOrg: true}
		rec := serve(t, newRouter(rbac.ActionView), subject, "/users")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unauthenticated is 401", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, newRouter(rbac.ActionView), nil, "/organizations/1/users")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestEnforceSystemConfig(t *testing.T) {
	t.Parallel()

	// A matrix with a read-only operator role: database.view but no
	// system_config capabilities at all.
	matrix := rbac.DefaultMatrix()
	matrix[rbac.RoleOrgAdmin] = append(matrix[rbac.RoleOrgAdmin], "database.view")
	a, err := rbac.NewAuthorizer(context.Background(), rbac.NewStaticSource(matrix))
	require.NoError(t, err)

	t.Run("database viewer may view config", func(t *testing.T) {
		t.Parallel()
		mw := rbac.EnforceSystemConfig(a, rbac.ActionView)
		subject := testSubject{id: 3, role: rbac.RoleOrgAdmin, orgID: 1, hasOrg: true}
		rec := serveWith(t, mw, subject, http.MethodGet, "/system/config")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("viewing does not imply editing", func(t *testing.T) {
		t.Parallel()
		mw := rbac.EnforceSystemConfig(a, rbac.ActionUpdate)
		subject := testSubject{id: 3, role: rbac.RoleOrgAdmin, orgID: 1, hasOrg: true}
		rec := serveWith(t, mw, subject, http.MethodPut, "/system/config")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "INSUFFICIENT_PERMISSIONS", body["code"])
		assert.Equal(t, "system_config.update", body["requiredPermission"])
	})

	t.Run("operational role edits config", func(t *testing.T) {
		t.Parallel()
		mw := rbac.EnforceSystemConfig(a, rbac.ActionUpdate)
		rec := serveWith(t, mw, testSubject{id: 1, role: rbac.RoleSystemAdmin}, http.MethodPut, "/system/config")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireDeveloper(t *testing.T) {
	t.Parallel()

	t.Run("developer passes", func(t *testing.T) {
		t.Parallel()
		rec := serveWith(t, rbac.RequireDeveloper(), testSubject{id: 1, role: rbac.RoleDeveloper}, http.MethodPost, "/system/cache/invalidate")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("system admin is denied despite operational status", func(t *testing.T) {
		t.Parallel()
		rec := serveWith(t, rbac.RequireDeveloper(), testSubject{id: 2, role: rbac.RoleSystemAdmin}, http.MethodPost, "/system/cache/invalidate")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "DEVELOPER_ONLY", body["code"])
		assert.Equal(t, "system_admin", body["currentRole"])
	})

	t.Run("unauthenticated is 401", func(t *testing.T) {
		t.Parallel()
		rec := serveWith(t, rbac.RequireDeveloper(), nil, http.MethodPost, "/system/cache/invalidate")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
