package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/assesskit/assesskit/core"
	"github.com/assesskit/assesskit/pkg/audit"
	"github.com/assesskit/assesskit/pkg/logger"
)

// GateOption configures gate middleware.
type GateOption func(*gateConfig)

type gateConfig struct {
	audit audit.Logger
	log   *slog.Logger
	quota func(ctx context.Context) error
}

// WithAuditLogger routes denial records to the given audit logger.
// Security-relevant denials carry requester, resource, action and timestamp.
func WithAuditLogger(l audit.Logger) GateOption {
	return func(c *gateConfig) { c.audit = l }
}

// WithLogger sets the structured logger for denial records.
func WithLogger(l *slog.Logger) GateOption {
	return func(c *gateConfig) { c.log = l }
}

// WithQuotaCheck adds a usage-quota precondition evaluated after the
// capability check passes. A quota.ErrQuotaExceeded (or any other error)
// from the check ends the request with 403 QUOTA_EXCEEDED.
func WithQuotaCheck(check func(ctx context.Context) error) GateOption {
	return func(c *gateConfig) { c.quota = check }
}

func newGateConfig(opts []GateOption) *gateConfig {
	cfg := &gateConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// denyUnauthenticated terminates the request with 401. Gates check identity
// before evaluating any capability, so an unauthenticated request can never
// learn which permissions a route demands.
func (c *gateConfig) denyUnauthenticated(w http.ResponseWriter) {
	core.WriteHTTPError(w, core.ErrUnauthorized, "authentication required")
}

// deny terminates the request with 403 and records the denial.
func (c *gateConfig) deny(w http.ResponseWriter, r *http.Request, subject Subject, code, message string, resource Resource, action Action, fields ...core.Field) {
	c.log.WarnContext(r.Context(), "access denied",
		logger.Component("rbac"),
		logger.UserID(subject.SubjectID()),
		logger.Role(subject.SubjectRole()),
		slog.String("resource", string(resource)),
		slog.String("action", string(action)),
		slog.String("code", code),
	)

	if c.audit != nil {
		_ = c.audit.Log(r.Context(), "authorization.denied",
			audit.WithResource(Permission(resource, action)),
			audit.WithResult(audit.ResultDenied),
			audit.WithReason(code),
			audit.WithHTTPRequest(r.Method, r.URL.Path),
		)
	}

	core.WriteError(w, http.StatusForbidden, code, message, fields...)
}

// Enforce returns middleware that gates the route on the given resource and
// action. Outcomes: no subject -> 401; capability missing -> 403 with the
// required permission and current role; otherwise the request continues.
func Enforce(a Authorizer, resource Resource, action Action, opts ...GateOption) func(http.Handler) http.Handler {
	cfg := newGateConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				cfg.denyUnauthenticated(w)
				return
			}

			decision := a.Check(subject.SubjectRole(), resource, action)
			if !decision.Allowed {
				cfg.deny(w, r, subject, "INSUFFICIENT_PERMISSIONS", "insufficient permissions",
					resource, action,
					core.F("requiredPermission", Permission(resource, action)),
					core.F("currentRole", string(subject.SubjectRole())),
				)
				return
			}

			if cfg.quota != nil {
				if err := cfg.quota(r.Context()); err != nil {
					cfg.deny(w, r, subject, "QUOTA_EXCEEDED", "usage quota exceeded",
						resource, action,
						core.F("currentRole", string(subject.SubjectRole())),
					)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
