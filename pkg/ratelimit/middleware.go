package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/assesskit/assesskit/core"
)

// KeyFunc derives the rate limit key from a request, e.g. the client IP.
type KeyFunc func(r *http.Request) string

// Middleware rejects requests over the bucket's limit with 429. Requests
// whose key resolves to "" and storage failures pass through: rate limiting
// is protection, not an availability dependency.
func Middleware(b *Bucket, key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := b.Allow(r.Context(), k)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if retryAfter := int(result.RetryAfter().Seconds()); retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				core.WriteError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
