package audit

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTable = "audit_events"

// PGStorage persists audit events to PostgreSQL.
type PGStorage struct {
	pool  *pgxpool.Pool
	table string
}

// PGOption configures the postgres storage.
type PGOption func(*PGStorage)

// WithTable overrides the destination table name.
func WithTable(table string) PGOption {
	return func(s *PGStorage) {
		if table != "" {
			s.table = table
		}
	}
}

// NewPGStorage creates a postgres-backed audit event store.
func NewPGStorage(pool *pgxpool.Pool, opts ...PGOption) *PGStorage {
	if pool == nil {
		panic("audit: pgx pool cannot be nil")
	}

	s := &PGStorage{pool: pool, table: defaultTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store inserts the event. Metadata is stored as JSONB.
func (s *PGStorage) Store(ctx context.Context, event Event) error {
	var metadata []byte
	if len(event.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(event.Metadata)
		if err != nil {
			return errors.Join(ErrStorageFailed, err)
		}
	}

	query := `INSERT INTO ` + s.table + ` (
		id, tenant_id, user_id, action, resource, result, reason,
		method, path, environment, request_id, metadata, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.pool.Exec(ctx, query,
		event.ID, event.TenantID, event.UserID, event.Action, event.Resource,
		string(event.Result), event.Reason, event.Method, event.Path,
		event.Environment, event.RequestID, metadata, event.CreatedAt,
	)
	if err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}
