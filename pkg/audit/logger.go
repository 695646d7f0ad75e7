package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Logger records audit events. Implementations must not drop events
// silently: the primary failure mode this package defends against is a
// tenant-isolation breach that leaves no trace.
type Logger interface {
	// Log records an audited operation.
	Log(ctx context.Context, action string, opts ...EventOption) error
}

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// contextExtractor pulls a string value out of the request context.
type contextExtractor func(context.Context) (string, bool)

type logger struct {
	storage            Storage
	tenantIDExtractor  contextExtractor
	userIDExtractor    contextExtractor
	requestIDExtractor contextExtractor
	envExtractor       contextExtractor
}

// Option configures the audit logger.
type Option func(*logger)

// WithTenantIDExtractor registers a function that derives the tenant id
// from the request context.
func WithTenantIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.tenantIDExtractor = fn }
}

// WithUserIDExtractor registers a function that derives the acting user id
// from the request context.
func WithUserIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.userIDExtractor = fn }
}

// WithRequestIDExtractor registers a function that derives the request id
// from the request context.
func WithRequestIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.requestIDExtractor = fn }
}

// WithEnvironmentExtractor registers a function that derives the deployment
// label from the request context.
func WithEnvironmentExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.envExtractor = fn }
}

// NewLogger creates an audit logger backed by the given storage.
func NewLogger(storage Storage, opts ...Option) Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &logger{storage: storage}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.eventFromContext(ctx)
	event.ID = uuid.NewString()
	event.Action = action
	event.CreatedAt = time.Now()

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}

	return l.storage.Store(ctx, event)
}

func (l *logger) eventFromContext(ctx context.Context) Event {
	var event Event

	if l.tenantIDExtractor != nil {
		if v, ok := l.tenantIDExtractor(ctx); ok {
			event.TenantID = v
		}
	}
	if l.userIDExtractor != nil {
		if v, ok := l.userIDExtractor(ctx); ok {
			event.UserID = v
		}
	}
	if l.requestIDExtractor != nil {
		if v, ok := l.requestIDExtractor(ctx); ok {
			event.RequestID = v
		}
	}
	if l.envExtractor != nil {
		if v, ok := l.envExtractor(ctx); ok {
			event.Environment = v
		}
	}

	return event
}
