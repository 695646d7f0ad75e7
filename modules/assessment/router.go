package assessment

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/assesskit/assesskit/pkg/audit"
	"github.com/assesskit/assesskit/pkg/demoguard"
	"github.com/assesskit/assesskit/pkg/environment"
	"github.com/assesskit/assesskit/pkg/identity"
	"github.com/assesskit/assesskit/pkg/modules"
	"github.com/assesskit/assesskit/pkg/quota"
	"github.com/assesskit/assesskit/pkg/rbac"
	"github.com/assesskit/assesskit/pkg/requestid"
	"github.com/assesskit/assesskit/pkg/session"
	"github.com/assesskit/assesskit/pkg/tenantscope"
)

// UserDirectory lists an organization's members for the user-management
// endpoints. Satisfied by identity.MemoryStore and identity.PGStore.
type UserDirectory interface {
	ListUsersByOrg(ctx context.Context, orgID int64) ([]identity.User, error)
}

// Deps wires the assessment API together.
type Deps struct {
	Sessions   *session.Manager
	Resolver   *identity.Resolver
	Authorizer rbac.Authorizer
	Cases      CaseStore
	Users      UserDirectory
	Settings   *Settings
	Guard      *demoguard.Guard // nil outside demo deployments
	Audit      audit.Logger
	Env        environment.Environment
	Log        *slog.Logger
}

// Router builds the protected API. The middleware order is the contract:
// request id, environment, session, identity resolution, tenant scoping,
// demo firewall, then per-route gates. Handlers below the chain can assume
// a resolved identity and a pinned tenant scope.
func Router(deps Deps) chi.Router {
	if deps.Sessions == nil || deps.Resolver == nil || deps.Authorizer == nil || deps.Cases == nil {
		panic("assessment: sessions, resolver, authorizer and case store are required")
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Settings == nil {
		deps.Settings = NewSettings(nil)
	}

	gateOpts := []rbac.GateOption{rbac.WithLogger(deps.Log)}
	if deps.Audit != nil {
		gateOpts = append(gateOpts, rbac.WithAuditLogger(deps.Audit))
	}

	// Report generation is the one metered operation: the gate consults the
	// identity's usage counters after the capability check passes.
	reportQuota := func(ctx context.Context) error {
		id, ok := identity.FromContext(ctx)
		if !ok {
			return nil
		}
		return quota.UsageInfo{Current: id.ReportCount, Limit: id.MaxReports}.Allow()
	}

	h := &handlers{deps: deps}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(environment.Middleware(deps.Env))
	r.Use(deps.Sessions.Middleware)
	r.Use(deps.Resolver.Middleware)
	r.Use(tenantscope.Middleware)
	if deps.Guard != nil {
		r.Use(deps.Guard.Middleware)
	}

	r.Route("/modules/{module}", func(mr chi.Router) {
		mr.Use(modules.Gate("module"))

		mr.With(rbac.Enforce(deps.Authorizer, rbac.ResourceAssessmentCases, rbac.ActionView, gateOpts...)).
			Get("/assessment-cases", h.listCases)
		mr.With(rbac.Enforce(deps.Authorizer, rbac.ResourceAssessmentCases, rbac.ActionCreate, gateOpts...)).
			Post("/assessment-cases", h.createCase)
		mr.With(rbac.Enforce(deps.Authorizer, rbac.ResourceAssessmentCases, rbac.ActionView, gateOpts...)).
			Get("/assessment-cases/{caseID}", h.getCase)
		mr.With(rbac.Enforce(deps.Authorizer, rbac.ResourceReports, rbac.ActionCreate,
			append(gateOpts, rbac.WithQuotaCheck(reportQuota))...)).
			Post("/assessment-cases/{caseID}/reports", h.createReport)
	})

	r.With(rbac.EnforceUserManagement(deps.Authorizer, rbac.ActionView, "orgID", gateOpts...)).
		Get("/organizations/{orgID}/users", h.listOrgUsers)

	r.With(rbac.EnforceSystemConfig(deps.Authorizer, rbac.ActionView, gateOpts...)).
		Get("/system/config", h.getConfig)
	r.With(rbac.EnforceSystemConfig(deps.Authorizer, rbac.ActionUpdate, gateOpts...)).
		Put("/system/config", h.updateConfig)
	r.With(rbac.RequireDeveloper(gateOpts...)).
		Post("/system/cache/invalidate", h.invalidateCache)

	r.With(rbac.EnforceAnalytics(deps.Authorizer, gateOpts...)).
		Get("/admin/analytics", h.analytics)

	return r
}
