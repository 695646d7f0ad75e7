// Package requestid provides HTTP middleware and context helpers for request
// correlation identifiers. Audit events written by the permission gates and
// the demo firewall carry the request id so a denial can be traced back to
// the exact request that produced it.
package requestid
