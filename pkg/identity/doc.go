// Package identity resolves the session's user id into a complete,
// request-scoped Identity: role, organization, legacy customer alias,
// effective module set, report quota and account status.
//
// The resolver reads storage fresh on every request. That is the property
// the whole authorization chain depends on: revoking a role, unassigning a
// module or deactivating an account takes effect on the next request, with
// no cached privilege surviving anywhere. The price is one joined read per
// request, paid deliberately.
package identity
