// Package ratelimit is a token bucket rate limiter with in-memory and Redis
// stores. The API mounts it in front of the login endpoints, keyed by client
// IP, to slow credential stuffing.
package ratelimit
