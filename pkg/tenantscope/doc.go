// Package tenantscope derives and carries the per-request tenant filter.
//
// The scope is computed once from the resolved identity (operational roles
// get the unrestricted scope, everyone else their own organization) and is
// write-once in the context. Stores take a Scope parameter rather than
// reading it implicitly, which makes "query without a tenant filter" a
// compile-time impossibility instead of a code-review hope.
package tenantscope
