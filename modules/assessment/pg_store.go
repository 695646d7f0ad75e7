package assessment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assesskit/assesskit/pkg/modules"
	"github.com/assesskit/assesskit/pkg/tenantscope"
)

// PGCaseStore implements CaseStore over PostgreSQL. The tenant scope is
// compiled into the WHERE clause of every read and the report increment, so a
// row outside the scope behaves exactly like a row that does not exist.
type PGCaseStore struct {
	pool *pgxpool.Pool
}

// NewPGCaseStore creates a postgres-backed case store.
func NewPGCaseStore(pool *pgxpool.Pool) *PGCaseStore {
	if pool == nil {
		panic("assessment: pgx pool cannot be nil")
	}
	return &PGCaseStore{pool: pool}
}

const caseColumns = `id, org_id, customer_id, module, title, status, report_count, created_by, created_at`

// scopeClause renders the scope as a SQL condition bound to placeholder $2;
// every query here takes its primary filter as $1. Unrestricted scopes match
// everything.
func scopeClause(scope tenantscope.Scope) (string, []any) {
	if scope.Unrestricted {
		return "TRUE", nil
	}
	return "org_id = $2", []any{scope.OrgID}
}

func (s *PGCaseStore) Create(ctx context.Context, scope tenantscope.Scope, c *Case) error {
	if !scope.AppliesTo(c.OrgID) {
		return ErrScopeViolation
	}

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.Status == "" {
		c.Status = "draft"
	}

	_, err := s.pool.Exec(ctx, `INSERT INTO assessment_cases (`+caseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.OrgID, c.CustomerID, string(c.Module), c.Title, c.Status,
		c.ReportCount, c.CreatedBy, c.CreatedAt,
	)
	if err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

func (s *PGCaseStore) Get(ctx context.Context, scope tenantscope.Scope, id uuid.UUID) (*Case, error) {
	cond, args := scopeClause(scope)
	args = append([]any{id}, args...)

	row := s.pool.QueryRow(ctx, `SELECT `+caseColumns+`
		FROM assessment_cases WHERE id = $1 AND `+cond, args...)

	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaseNotFound
		}
		return nil, errors.Join(ErrStorageFailed, err)
	}
	return c, nil
}

func (s *PGCaseStore) List(ctx context.Context, scope tenantscope.Scope, module modules.Module) ([]Case, error) {
	cond, args := scopeClause(scope)
	args = append([]any{string(module)}, args...)

	rows, err := s.pool.Query(ctx, `SELECT `+caseColumns+`
		FROM assessment_cases WHERE module = $1 AND `+cond+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}
	defer rows.Close()

	var out []Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, errors.Join(ErrStorageFailed, err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}
	return out, nil
}

func (s *PGCaseStore) AddReport(ctx context.Context, scope tenantscope.Scope, id uuid.UUID) (*Case, error) {
	cond, args := scopeClause(scope)
	args = append([]any{id}, args...)

	row := s.pool.QueryRow(ctx, `UPDATE assessment_cases
		SET report_count = report_count + 1
		WHERE id = $1 AND `+cond+`
		RETURNING `+caseColumns, args...)

	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaseNotFound
		}
		return nil, errors.Join(ErrStorageFailed, err)
	}
	return c, nil
}

func scanCase(row pgx.Row) (*Case, error) {
	var (
		c      Case
		module string
	)
	if err := row.Scan(
		&c.ID, &c.OrgID, &c.CustomerID, &module, &c.Title, &c.Status,
		&c.ReportCount, &c.CreatedBy, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.Module = modules.Module(module)
	return &c, nil
}
