package assessment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/assesskit/assesskit/core"
	"github.com/assesskit/assesskit/pkg/audit"
	"github.com/assesskit/assesskit/pkg/demoguard"
	"github.com/assesskit/assesskit/pkg/identity"
	"github.com/assesskit/assesskit/pkg/modules"
	"github.com/assesskit/assesskit/pkg/tenantscope"
)

type handlers struct {
	deps Deps
}

// requestScope pulls the identity and tenant scope the middleware chain
// attached. Missing values mean the chain was not wired; that is a server
// bug, reported as 500.
func (h *handlers) requestScope(w http.ResponseWriter, r *http.Request) (identity.Identity, tenantscope.Scope, bool) {
	id, okID := identity.FromContext(r.Context())
	scope, okScope := tenantscope.FromContext(r.Context())
	if !okID || !okScope {
		core.WriteHTTPError(w, core.ErrInternalServerError, "request is missing identity or scope")
		return identity.Identity{}, tenantscope.Scope{}, false
	}
	return id, scope, true
}

func (h *handlers) listCases(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	// The gate already validated the module id.
	module, err := modules.Parse(chi.URLParam(r, "module"))
	if err != nil {
		core.WriteHTTPError(w, core.ErrBadRequest, "unknown module")
		return
	}

	cases, err := h.deps.Cases.List(r.Context(), scope, module)
	if err != nil {
		core.WriteHTTPError(w, core.ErrInternalServerError, "listing assessment cases failed")
		return
	}
	if cases == nil {
		cases = []Case{}
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"cases": cases})
}

type createCaseRequest struct {
	Title      string `json:"title"`
	CustomerID string `json:"customerId"`
	OrgID      int64  `json:"orgId"`
}

func (h *handlers) createCase(w http.ResponseWriter, r *http.Request) {
	id, scope, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	module, err := modules.Parse(chi.URLParam(r, "module"))
	if err != nil {
		core.WriteHTTPError(w, core.ErrBadRequest, "unknown module")
		return
	}

	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		core.WriteHTTPError(w, core.ErrBadRequest, "title is required")
		return
	}

	// Tenant attribution: org-scoped callers always write into their own
	// organization. Operational callers may write on behalf of a tenant
	// named in the body.
	orgID, customerID := id.OrgID, id.CustomerID
	if scope.Unrestricted && req.OrgID != 0 {
		orgID, customerID = req.OrgID, req.CustomerID
	}
	// Demo writes arrive with the customer id pinned by the firewall and
	// always land in the caller's own organization. Body attribution is
	// ignored even for operational callers, so a demo write can never land
	// inside a real tenant's scope.
	if pinned, isDemo := demoguard.DemoOperation(r.Context()); isDemo {
		orgID, customerID = id.OrgID, pinned
	}

	c := &Case{
		OrgID:      orgID,
		CustomerID: customerID,
		Module:     module,
		Title:      req.Title,
		CreatedBy:  id.UserID,
		CreatedAt:  time.Now(),
	}

	if err := h.deps.Cases.Create(r.Context(), scope, c); err != nil {
		if errors.Is(err, ErrScopeViolation) {
			core.WriteHTTPError(w, core.ErrForbidden, "case belongs to another organization")
			return
		}
		core.WriteHTTPError(w, core.ErrInternalServerError, "creating assessment case failed")
		return
	}

	h.audit(r, "assessment_case.created", c.ID.String())
	core.WriteJSON(w, http.StatusCreated, c)
}

func (h *handlers) getCase(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	caseID, err := uuid.Parse(chi.URLParam(r, "caseID"))
	if err != nil {
		core.WriteHTTPError(w, core.ErrBadRequest, "invalid case id")
		return
	}

	c, err := h.deps.Cases.Get(r.Context(), scope, caseID)
	if err != nil {
		core.WriteHTTPError(w, core.ErrNotFound, "assessment case not found")
		return
	}

	core.WriteJSON(w, http.StatusOK, c)
}

func (h *handlers) createReport(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	caseID, err := uuid.Parse(chi.URLParam(r, "caseID"))
	if err != nil {
		core.WriteHTTPError(w, core.ErrBadRequest, "invalid case id")
		return
	}

	c, err := h.deps.Cases.AddReport(r.Context(), scope, caseID)
	if err != nil {
		core.WriteHTTPError(w, core.ErrNotFound, "assessment case not found")
		return
	}

	h.audit(r, "report.created", c.ID.String())
	core.WriteJSON(w, http.StatusCreated, c)
}

func (h *handlers) listOrgUsers(w http.ResponseWriter, r *http.Request) {
	if h.deps.Users == nil {
		core.WriteHTTPError(w, core.ErrInternalServerError, "user directory is not configured")
		return
	}

	id, scope, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	// The boundary gate already rejected cross-org requests; resolve the
	// parameter to a concrete org id (it may be the legacy customer alias
	// of the caller's own organization).
	orgID := id.OrgID
	if scope.Unrestricted {
		orgID = parseOrgParam(chi.URLParam(r, "orgID"))
		if orgID == 0 {
			core.WriteHTTPError(w, core.ErrBadRequest, "invalid organization id")
			return
		}
	}

	users, err := h.deps.Users.ListUsersByOrg(r.Context(), orgID)
	if err != nil {
		core.WriteHTTPError(w, core.ErrInternalServerError, "listing users failed")
		return
	}

	type member struct {
		ID     int64  `json:"id"`
		Email  string `json:"email"`
		Role   string `json:"role"`
		Active bool   `json:"active"`
	}
	out := make([]member, 0, len(users))
	for _, u := range users {
		out = append(out, member{ID: u.ID, Email: u.Email, Role: u.Role, Active: u.Active})
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (h *handlers) getConfig(w http.ResponseWriter, r *http.Request) {
	core.WriteJSON(w, http.StatusOK, map[string]any{"config": h.deps.Settings.Snapshot()})
}

func (h *handlers) updateConfig(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		core.WriteHTTPError(w, core.ErrBadRequest, "invalid config payload")
		return
	}

	h.deps.Settings.Apply(values)
	h.audit(r, "system_config.updated", "")
	core.WriteJSON(w, http.StatusOK, map[string]any{"config": h.deps.Settings.Snapshot()})
}

func (h *handlers) invalidateCache(w http.ResponseWriter, r *http.Request) {
	h.audit(r, "cache.invalidated", "")
	w.WriteHeader(http.StatusAccepted)
}

func (h *handlers) analytics(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	byModule := make(map[string]int)
	total := 0
	for _, m := range modules.All() {
		cases, err := h.deps.Cases.List(r.Context(), scope, m)
		if err != nil {
			core.WriteHTTPError(w, core.ErrInternalServerError, "analytics aggregation failed")
			return
		}
		byModule[string(m)] = len(cases)
		total += len(cases)
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"totalCases": total,
		"byModule":   byModule,
	})
}

func (h *handlers) audit(r *http.Request, action, resource string) {
	if h.deps.Audit == nil {
		return
	}
	opts := []audit.EventOption{
		audit.WithResult(audit.ResultAllowed),
		audit.WithHTTPRequest(r.Method, r.URL.Path),
	}
	if resource != "" {
		opts = append(opts, audit.WithResource(resource))
	}
	_ = h.deps.Audit.Log(r.Context(), action, opts...)
}

func parseOrgParam(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
