package environment

import "context"

type contextKey struct{}

// WithContext adds the environment label to the context.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves the environment label from the context.
// Returns the empty Environment when none is set.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

// IsProduction checks if the environment from context is production.
func IsProduction(ctx context.Context) bool {
	return FromContext(ctx) == Production
}

// IsDemo checks if the environment from context is a demo deployment.
func IsDemo(ctx context.Context) bool {
	return FromContext(ctx) == Demo
}
