package modules

import "context"

type assignedCtxKey struct{}

// WithAssigned stores the request's effective module set in the context. The
// identity resolver sets it once per request.
func WithAssigned(ctx context.Context, assigned []Module) context.Context {
	return context.WithValue(ctx, assignedCtxKey{}, assigned)
}

// AssignedFromContext retrieves the effective module set from the context.
func AssignedFromContext(ctx context.Context) ([]Module, bool) {
	assigned, ok := ctx.Value(assignedCtxKey{}).([]Module)
	return assigned, ok
}
