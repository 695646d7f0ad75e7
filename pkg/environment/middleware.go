package environment

import "net/http"

// Middleware attaches the given environment to all request contexts so
// downstream stages (notably the demo firewall) can branch on it without
// re-reading process configuration.
func Middleware(env Environment) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithContext(r.Context(), env)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
