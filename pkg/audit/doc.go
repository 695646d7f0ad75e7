// Package audit records security-relevant decisions made by the
// authorization chain: gate denials, demo-firewall outcomes (including
// allowed operations and tenant-id overrides), and identity integrity
// failures. Events are enriched from the request context (tenant, user,
// request id, environment) and persisted through a pluggable Storage.
package audit
