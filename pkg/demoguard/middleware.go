package demoguard

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/assesskit/assesskit/core"
	"github.com/assesskit/assesskit/pkg/audit"
	"github.com/assesskit/assesskit/pkg/environment"
	"github.com/assesskit/assesskit/pkg/logger"
)

// maxBodyBytes caps how much of a write body the guard will buffer for
// inspection.
const maxBodyBytes = 1 << 20

// Option configures the Guard.
type Option func(*Guard)

// WithAllowList replaces the default allow-list.
func WithAllowList(list AllowList) Option {
	return func(g *Guard) { g.allowList = list }
}

// WithAuditLogger routes guard decisions to the audit log.
func WithAuditLogger(l audit.Logger) Option {
	return func(g *Guard) { g.audit = l }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) { g.log = l }
}

// WithDatabaseInfo supplies the connected database's metadata for the
// production-safety block.
func WithDatabaseInfo(info DatabaseInfo) Option {
	return func(g *Guard) { g.db = info }
}

// Guard is the demo write-path firewall. Outside demo environments it is a
// pass-through; inside one, every mutating request must clear the allow-list
// and have its payload pinned or verified against the reserved demo tenant.
type Guard struct {
	demoTenantID string
	allowList    AllowList
	audit        audit.Logger
	log          *slog.Logger
	db           DatabaseInfo
}

// New creates a demo guard pinning writes to the given tenant.
func New(demoTenantID string, opts ...Option) *Guard {
	if demoTenantID == "" {
		panic("demoguard: demo tenant id is required")
	}

	g := &Guard{
		demoTenantID: demoTenantID,
		allowList:    DefaultAllowList(),
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// Middleware applies the firewall. Reads always pass untouched; the guard
// only ever becomes active when the request context says the deployment is
// a demo environment.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !environment.IsDemo(r.Context()) || !isWrite(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		// A demo deployment pointed at something that looks like a
		// production database must not write anything at all.
		if g.db.LooksProduction() {
			g.record(r, audit.ResultError, "DEMO_ENVIRONMENT_UNSAFE")
			core.WriteError(w, http.StatusServiceUnavailable, "DEMO_ENVIRONMENT_UNSAFE",
				"demo environment is connected to a production database")
			return
		}

		rule, allowed := g.allowList.Find(r)
		if !allowed {
			g.record(r, audit.ResultDenied, "DEMO_OPERATION_NOT_ALLOWED")
			core.WriteError(w, http.StatusForbidden, "DEMO_OPERATION_NOT_ALLOWED",
				"operation not available in demo mode",
				core.F("method", r.Method),
			)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			core.WriteHTTPError(w, core.ErrBadRequest, "unreadable request body")
			return
		}
		_ = r.Body.Close()

		newBody, violation, changed := inspectPayload(body, g.demoTenantID, rule.Pin)
		if violation != "" {
			g.record(r, audit.ResultDenied, "DEMO_CUSTOMER_ISOLATION_VIOLATION")
			core.WriteError(w, http.StatusForbidden, "DEMO_CUSTOMER_ISOLATION_VIOLATION",
				"demo operations are restricted to the demo customer",
				core.F("field", violation),
			)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(newBody))
		r.ContentLength = int64(len(newBody))

		if changed {
			g.record(r, audit.ResultOverride, "DEMO_TENANT_PINNED")
		} else {
			g.record(r, audit.ResultAllowed, "DEMO_OPERATION_ALLOWED")
		}

		ctx := WithDemoOperation(r.Context(), g.demoTenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// record writes the decision to both the structured log and the audit
// trail. Demo decisions are audited on the allow path too, so a walkthrough
// leaves a complete trace.
func (g *Guard) record(r *http.Request, result audit.Result, reason string) {
	g.log.InfoContext(r.Context(), "demo guard decision",
		logger.Component("demoguard"),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("result", string(result)),
		slog.String("reason", reason),
	)

	if g.audit == nil {
		return
	}
	_ = g.audit.Log(r.Context(), "demo.write",
		audit.WithResult(result),
		audit.WithReason(reason),
		audit.WithHTTPRequest(r.Method, r.URL.Path),
		audit.WithEnvironment(string(environment.Demo)),
		audit.WithTenant(g.demoTenantID),
	)
}
