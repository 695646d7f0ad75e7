package rbac

import "context"

// Subject is the authorization view of the resolved request identity. The
// identity resolver attaches it once per request; gates only read it.
type Subject interface {
	// SubjectID is the acting user's id.
	SubjectID() int64
	// SubjectRole is the validated role.
	SubjectRole() Role
	// SubjectOrg returns the organization id and whether one is assigned
	// (system-level roles have none).
	SubjectOrg() (int64, bool)
	// SubjectCustomer is the legacy customer-id alias for the subject's
	// organization; empty when none is assigned.
	SubjectCustomer() string
}

type subjectCtxKey struct{}

// WithSubject stores the authorization subject in the context.
func WithSubject(ctx context.Context, subject Subject) context.Context {
	return context.WithValue(ctx, subjectCtxKey{}, subject)
}

// SubjectFromContext retrieves the authorization subject from the context.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	subject, ok := ctx.Value(subjectCtxKey{}).(Subject)
	return subject, ok && subject != nil
}
