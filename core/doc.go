// Package core provides the HTTP response primitives shared by every
// middleware and handler in the platform: a typed HTTPError and helpers that
// render the standard JSON error shape {"error": ..., "code": ...} with
// optional diagnostic fields.
package core
