package tenantscope

import (
	"net/http"

	"github.com/assesskit/assesskit/core"
	"github.com/assesskit/assesskit/pkg/identity"
	"github.com/assesskit/assesskit/pkg/rbac"
)

// Middleware derives the request's tenant scope from the resolved identity
// and pins it to the context. It must run after the identity resolver;
// a request reaching it without an identity is a wiring error and ends 500.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok {
			core.WriteHTTPError(w, core.ErrInternalServerError, "tenant scope requires a resolved identity")
			return
		}

		scope := ForOrg(id.OrgID, id.CustomerID)
		if rbac.IsOperationalRole(id.Role) {
			scope = UnrestrictedScope()
		}

		next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
	})
}
