// Package redis connects the session store's Redis backend: env-driven
// Config, Connect with retry, and a healthcheck probe.
package redis
