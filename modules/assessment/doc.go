// Package assessment composes the protected assessment API: session
// handling, per-request identity resolution, tenant scoping, the demo
// firewall and the capability gates, stacked in that order in front of thin
// JSON handlers.
//
// The case store takes the tenant scope as an explicit argument on every
// call, so an unscoped query cannot be written by accident.
package assessment
