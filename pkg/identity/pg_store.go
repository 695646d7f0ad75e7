package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assesskit/assesskit/pkg/modules"
)

// PGStore implements UserStore over PostgreSQL. The user and its
// organization are fetched in one LEFT JOIN so the resolver pays a single
// round trip per request.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a postgres-backed user store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	if pool == nil {
		panic("identity: pgx pool cannot be nil")
	}
	return &PGStore{pool: pool}
}

const userWithOrgQuery = `SELECT
	u.id, u.email, u.password_hash, u.role, COALESCE(u.org_id, 0),
	u.report_count, u.max_reports, u.active, COALESCE(u.last_login_at, 'epoch'::timestamptz),
	o.id, o.name, o.customer_id, o.modules, o.max_users, o.active
FROM users u
LEFT JOIN organizations o ON o.id = u.org_id
WHERE `

func (s *PGStore) GetUserWithOrganization(ctx context.Context, userID int64) (*User, error) {
	return s.fetch(ctx, userWithOrgQuery+"u.id = $1", userID)
}

func (s *PGStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.fetch(ctx, userWithOrgQuery+"u.email = $1", email)
}

func (s *PGStore) fetch(ctx context.Context, query string, arg any) (*User, error) {
	var (
		user       User
		orgID      *int64
		orgName    *string
		customerID *string
		orgModules []string
		maxUsers   *int64
		orgActive  *bool
	)

	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.OrgID,
		&user.ReportCount, &user.MaxReports, &user.Active, &user.LastLoginAt,
		&orgID, &orgName, &customerID, &orgModules, &maxUsers, &orgActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrStorageFailed, err)
	}

	if orgID != nil {
		org := Organization{
			ID:      *orgID,
			Modules: make([]modules.Module, 0, len(orgModules)),
		}
		if orgName != nil {
			org.Name = *orgName
		}
		if customerID != nil {
			org.CustomerID = *customerID
		}
		if maxUsers != nil {
			org.MaxUsers = *maxUsers
		}
		if orgActive != nil {
			org.Active = *orgActive
		}
		for _, raw := range orgModules {
			if m, err := modules.Parse(raw); err == nil {
				org.Modules = append(org.Modules, m)
			}
		}
		user.Organization = &org
	}

	return &user, nil
}

// ListUsersByOrg returns the organization's users ordered by id. The
// organization join is skipped: callers listing a directory already know
// which organization they asked for.
func (s *PGStore) ListUsersByOrg(ctx context.Context, orgID int64) ([]User, error) {
	rows, err := s.pool.Query(ctx, `SELECT
		id, email, password_hash, role, COALESCE(org_id, 0),
		report_count, max_reports, active, COALESCE(last_login_at, 'epoch'::timestamptz)
	FROM users WHERE org_id = $1 ORDER BY id`, orgID)
	if err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.OrgID,
			&user.ReportCount, &user.MaxReports, &user.Active, &user.LastLoginAt,
		); err != nil {
			return nil, errors.Join(ErrStorageFailed, err)
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}
	return out, nil
}

func (s *PGStore) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, userID, at)
	if err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
