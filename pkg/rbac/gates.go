package rbac

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/assesskit/assesskit/core"
)

// EnforceUserManagement gates user-administration routes. On top of the base
// capability check it derives an organization boundary: an org-scoped role
// may only act on its own organization. The requested organization id is
// read from the named chi URL parameter; both a numeric organization id and
// the legacy customer-id alias are accepted. A mismatch is a 403 that
// surfaces both identifiers — the request is never silently narrowed to the
// caller's own organization. Operational roles bypass the boundary entirely.
func EnforceUserManagement(a Authorizer, action Action, orgParam string, opts ...GateOption) func(http.Handler) http.Handler {
	cfg := newGateConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				cfg.denyUnauthenticated(w)
				return
			}

			decision := a.Check(subject.SubjectRole(), ResourceUsers, action)
			if !decision.Allowed {
				cfg.deny(w, r, subject, "INSUFFICIENT_PERMISSIONS", "insufficient permissions",
					ResourceUsers, action,
					core.F("requiredPermission", Permission(ResourceUsers, action)),
					core.F("currentRole", string(subject.SubjectRole())),
				)
				return
			}

			requested := chi.URLParam(r, orgParam)
			if requested == "" || IsOperationalRole(subject.SubjectRole()) {
				next.ServeHTTP(w, r)
				return
			}

			if !subjectOwnsOrg(subject, requested) {
				cfg.deny(w, r, subject, "ORGANIZATION_BOUNDARY", "organization boundary violation",
					ResourceUsers, action,
					core.F("requestedOrganization", requested),
					core.F("userOrganization", subjectOrgLabel(subject)),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// EnforceSystemConfig gates system-configuration routes. Viewing is the
// broader grant (config viewers or database viewers qualify); every other
// action requires the narrow system_config capability itself.
func EnforceSystemConfig(a Authorizer, action Action, opts ...GateOption) func(http.Handler) http.Handler {
	cfg := newGateConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				cfg.denyUnauthenticated(w)
				return
			}

			role := subject.SubjectRole()

			allowed := false
			if action == ActionView {
				allowed = a.CanAny(role,
					Permission(ResourceSystemConfig, ActionView),
					Permission(ResourceDatabase, ActionView),
				)
			} else {
				allowed = a.Check(role, ResourceSystemConfig, action).Allowed
			}

			if !allowed {
				cfg.deny(w, r, subject, "INSUFFICIENT_PERMISSIONS", "insufficient permissions",
					ResourceSystemConfig, action,
					core.F("requiredPermission", Permission(ResourceSystemConfig, action)),
					core.F("currentRole", string(subject.SubjectRole())),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireDeveloper gates the most sensitive operational endpoints (cache
// invalidation, raw debug tooling) on the hard IsDeveloper predicate. This
// check is intentionally not expressible through the capability matrix.
func RequireDeveloper(opts ...GateOption) func(http.Handler) http.Handler {
	cfg := newGateConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				cfg.denyUnauthenticated(w)
				return
			}

			if !IsDeveloper(subject.SubjectRole()) {
				cfg.deny(w, r, subject, "DEVELOPER_ONLY", "developer role required",
					ResourceSystemConfig, ActionManage,
					core.F("currentRole", string(subject.SubjectRole())),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// EnforceAnalytics gates admin analytics routes.
func EnforceAnalytics(a Authorizer, opts ...GateOption) func(http.Handler) http.Handler {
	return Enforce(a, ResourceAnalytics, ActionView, opts...)
}

// subjectOwnsOrg reports whether the requested organization identifier names
// the subject's own organization, by numeric id or legacy customer alias.
func subjectOwnsOrg(subject Subject, requested string) bool {
	if id, err := strconv.ParseInt(requested, 10, 64); err == nil {
		orgID, has := subject.SubjectOrg()
		return has && id == orgID
	}
	alias := subject.SubjectCustomer()
	return alias != "" && requested == alias
}

// subjectOrgLabel formats the subject's organization for deny diagnostics:
// the customer alias when one exists, otherwise the numeric id.
func subjectOrgLabel(subject Subject) string {
	if alias := subject.SubjectCustomer(); alias != "" {
		return alias
	}
	if orgID, has := subject.SubjectOrg(); has {
		return strconv.FormatInt(orgID, 10)
	}
	return ""
}
