// Package demoguard is the write-path firewall for demo deployments.
//
// Demo environments share the production codebase, so the guard assumes the
// client is compromised or buggy and enforces three things on every
// mutating request: the operation must be on an explicit allow-list, any
// tenant-designating payload field must name the reserved demo tenant, and
// assessment-case bodies get their customer id overwritten (pinned) rather
// than trusted. If the deployment metadata says demo but the database looks
// like production, all writes stop with a 503 until a human sorts it out.
//
// Everything the guard decides — denials, passes and pin overrides alike —
// is written to the audit log.
package demoguard
