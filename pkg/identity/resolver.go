package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/assesskit/assesskit/core"
	"github.com/assesskit/assesskit/pkg/logger"
	"github.com/assesskit/assesskit/pkg/modules"
	"github.com/assesskit/assesskit/pkg/rbac"
	"github.com/assesskit/assesskit/pkg/session"
)

// UserUnbinder detaches the user from the current session. Satisfied by
// *session.Manager; the resolver uses it to invalidate stale bindings when
// the stored account no longer qualifies.
type UserUnbinder interface {
	ClearUser(ctx context.Context, r *http.Request) error
}

// ResolverOption configures the Resolver.
type ResolverOption func(*Resolver)

// WithSessionUnbinder lets the resolver clear a session's user pointer when
// the account is deactivated or the stored role fails validation.
func WithSessionUnbinder(u UserUnbinder) ResolverOption {
	return func(r *Resolver) { r.sessions = u }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

// WithReadOnly skips last-login bookkeeping writes. Authorization behavior
// is unchanged.
func WithReadOnly(readOnly bool) ResolverOption {
	return func(r *Resolver) { r.readOnly = readOnly }
}

// Resolver turns the session's user id into a fully resolved Identity on
// every request. There is deliberately no caching between requests: a role
// downgrade or deactivation takes effect on the next request, not at next
// login.
type Resolver struct {
	store    UserStore
	sessions UserUnbinder
	log      *slog.Logger
	readOnly bool
}

// NewResolver creates an identity resolver over the given store.
func NewResolver(store UserStore, opts ...ResolverOption) *Resolver {
	if store == nil {
		panic("identity: user store is required")
	}

	r := &Resolver{
		store: store,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Middleware resolves the request identity and attaches it to the context,
// along with the rbac subject and effective module set. Requests without an
// authenticated session, or bound to an inactive account, end with 401.
// A stored role outside the known set is a 500: corrupted authorization data
// must be repaired, not interpreted.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := session.UserIDFromContext(ctx)
		if !ok {
			core.WriteHTTPError(w, core.ErrUnauthorized, "authentication required")
			return
		}

		user, err := res.store.GetUserWithOrganization(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				res.unbind(r)
				core.WriteHTTPError(w, core.ErrUnauthorized, "authentication required")
				return
			}
			res.log.ErrorContext(ctx, "identity lookup failed",
				logger.Component("identity"),
				logger.UserID(userID),
				logger.Error(err),
			)
			core.WriteHTTPError(w, core.ErrInternalServerError, "identity lookup failed")
			return
		}

		role, err := rbac.ParseRole(user.Role)
		if err != nil {
			res.log.ErrorContext(ctx, "stored role failed validation",
				logger.Component("identity"),
				logger.UserID(user.ID),
				slog.String("storedRole", user.Role),
			)
			core.WriteError(w, http.StatusInternalServerError, "ROLE_INTEGRITY", "role integrity failure")
			return
		}

		if !user.Active {
			res.unbind(r)
			core.WriteError(w, http.StatusUnauthorized, "ACCOUNT_DEACTIVATED", "account deactivated")
			return
		}

		id := res.buildIdentity(user, role)

		if !res.readOnly {
			// Bookkeeping only: a failed stamp never blocks the request.
			if err := res.store.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
				res.log.WarnContext(ctx, "last-login stamp failed",
					logger.Component("identity"),
					logger.UserID(user.ID),
					logger.Error(err),
				)
			}
		}

		ctx = WithContext(ctx, id)
		ctx = rbac.WithSubject(ctx, id)
		ctx = modules.WithAssigned(ctx, id.Modules)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (res *Resolver) buildIdentity(user *User, role rbac.Role) Identity {
	id := Identity{
		UserID:      user.ID,
		Role:        role,
		OrgID:       user.OrgID,
		ReportCount: user.ReportCount,
		MaxReports:  user.MaxReports,
		Active:      user.Active,
		LastLoginAt: user.LastLoginAt,
	}

	var assigned []modules.Module
	if org := user.Organization; org != nil {
		id.OrgName = org.Name
		id.CustomerID = org.CustomerID
		assigned = org.Modules
	}
	id.Modules = modules.Effective(role, assigned)

	return id
}

func (res *Resolver) unbind(r *http.Request) {
	if res.sessions == nil {
		return
	}
	if err := res.sessions.ClearUser(r.Context(), r); err != nil {
		res.log.WarnContext(r.Context(), "session unbind failed",
			logger.Component("identity"),
			logger.Error(err),
		)
	}
}
