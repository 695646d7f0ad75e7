package demoguard

import "context"

type demoOpCtxKey struct{}

// demoOperation is the request-context marker downstream handlers read to
// know the write was demo-pinned and which tenant it was pinned to.
type demoOperation struct {
	tenantID string
}

// WithDemoOperation marks the request as a demo-mode write pinned to the
// given tenant.
func WithDemoOperation(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, demoOpCtxKey{}, demoOperation{tenantID: tenantID})
}

// DemoOperation reports whether the request is a demo-mode write and, if so,
// the tenant id all its data must belong to.
func DemoOperation(ctx context.Context) (string, bool) {
	op, ok := ctx.Value(demoOpCtxKey{}).(demoOperation)
	return op.tenantID, ok
}
