// Package pg bootstraps the PostgreSQL layer: an env-driven Config, a
// Connect helper with retry, goose migrations bridged onto the pgx pool, a
// healthcheck probe and error classification helpers.
//
// The identity user store and the audit trail run on the pool this package
// opens. Config also carries the ProductionDatabase flag the demo guard
// consults before allowing any demo-mode write.
package pg
