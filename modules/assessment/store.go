package assessment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/assesskit/assesskit/pkg/modules"
	"github.com/assesskit/assesskit/pkg/tenantscope"
)

// Case is an assessment case: one learner evaluation owned by exactly one
// organization.
type Case struct {
	ID          uuid.UUID      `json:"id"`
	OrgID       int64          `json:"orgId"`
	CustomerID  string         `json:"customerId"`
	Module      modules.Module `json:"module"`
	Title       string         `json:"title"`
	Status      string         `json:"status"`
	ReportCount int            `json:"reportCount"`
	CreatedBy   int64          `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
}

var (
	// ErrCaseNotFound covers both truly absent cases and cases outside the
	// caller's scope; the two are indistinguishable on purpose.
	ErrCaseNotFound = errors.New("assessment.case_not_found")

	// ErrScopeViolation indicates a write targeting an organization the
	// scope does not cover.
	ErrScopeViolation = errors.New("assessment.scope_violation")

	// ErrStorageFailed wraps backend storage errors.
	ErrStorageFailed = errors.New("assessment.storage_failed")
)

// CaseStore persists assessment cases. Every method takes the caller's
// tenant scope explicitly: there is no way to query this store without
// stating which tenants the caller may see.
type CaseStore interface {
	Create(ctx context.Context, scope tenantscope.Scope, c *Case) error
	Get(ctx context.Context, scope tenantscope.Scope, id uuid.UUID) (*Case, error)
	List(ctx context.Context, scope tenantscope.Scope, module modules.Module) ([]Case, error)
	AddReport(ctx context.Context, scope tenantscope.Scope, id uuid.UUID) (*Case, error)
}
