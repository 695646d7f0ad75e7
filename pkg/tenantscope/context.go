package tenantscope

import "context"

type scopeCtxKey struct{}

// WithScope stores the tenant scope in the context. The first scope wins:
// once set it cannot be replaced, so no downstream stage can widen access.
func WithScope(ctx context.Context, scope Scope) context.Context {
	if _, ok := FromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, scopeCtxKey{}, scope)
}

// FromContext retrieves the tenant scope from the context.
func FromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(scopeCtxKey{}).(Scope)
	return scope, ok
}
