package modules

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assesskit/assesskit/core"
	"github.com/assesskit/assesskit/pkg/rbac"
)

// Gate returns middleware that checks module-scoped routes. The module id is
// read from the named chi URL parameter. Outcomes, in order:
//
//   - unknown module id -> 400 UNKNOWN_MODULE (an addressing error, never a
//     permission response)
//   - no authenticated subject -> 401
//   - operational role or module in the assigned set -> pass
//   - otherwise -> 403 MODULE_NOT_ASSIGNED
func Gate(moduleParam string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			module, err := Parse(chi.URLParam(r, moduleParam))
			if err != nil {
				core.WriteError(w, http.StatusBadRequest, "UNKNOWN_MODULE", "unknown module",
					core.F("module", chi.URLParam(r, moduleParam)),
				)
				return
			}

			subject, ok := rbac.SubjectFromContext(r.Context())
			if !ok {
				core.WriteHTTPError(w, core.ErrUnauthorized, "authentication required")
				return
			}

			if rbac.IsOperationalRole(subject.SubjectRole()) {
				next.ServeHTTP(w, r)
				return
			}

			assigned, _ := AssignedFromContext(r.Context())
			if !Contains(assigned, module) {
				core.WriteError(w, http.StatusForbidden, "MODULE_NOT_ASSIGNED", "module not assigned",
					core.F("module", string(module)),
					core.F("currentRole", string(subject.SubjectRole())),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
