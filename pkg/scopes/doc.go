// Package scopes implements hierarchical permission scope matching.
//
// A scope is a dot-separated string such as "users.view" or "prompts.update".
// Scope sets may contain wildcard patterns: "*" grants everything, and
// "users.*" grants every action on the users resource. The rbac package
// builds its role capability matrix on top of these primitives.
package scopes
