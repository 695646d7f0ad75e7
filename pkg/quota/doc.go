// Package quota provides the report-usage counter semantics attached to an
// identity: a current count, a limit, and the reserved value -1 meaning
// unlimited. Route handlers consult the counter before starting report
// generation.
package quota
