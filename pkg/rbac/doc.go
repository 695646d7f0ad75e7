// Package rbac implements the platform's role-based access control: a static
// role/capability matrix, an Authorizer that evaluates (role, resource,
// action) triples, and HTTP gate middleware for route families with extra
// scope derivation (organization boundaries, system configuration, hard
// developer-only endpoints).
//
// Three design rules hold everywhere:
//
//   - The matrix is data. Granting a role a new capability is an edit to
//     DefaultMatrix, never a new branch in gate code.
//   - Privilege escalation for operational roles (system admin, developer)
//     happens in exactly one place, IsOperationalRole, so it can be audited
//     and tested in isolation.
//   - Gates never panic or propagate errors past the middleware boundary.
//     Every failure is a terminal JSON response: 401 without a subject, 403
//     with a machine-readable code otherwise.
//
// Route wiring:
//
//	r.With(rbac.Enforce(authz, rbac.ResourceAssessmentCases, rbac.ActionCreate,
//		rbac.WithAuditLogger(auditLog),
//	)).Post("/assessment-cases", createCase)
package rbac
