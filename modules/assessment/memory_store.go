package assessment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/assesskit/assesskit/pkg/modules"
	"github.com/assesskit/assesskit/pkg/tenantscope"
)

// MemoryCaseStore implements CaseStore in memory.
type MemoryCaseStore struct {
	mu    sync.RWMutex
	cases map[uuid.UUID]*Case
}

// NewMemoryCaseStore creates an empty in-memory case store.
func NewMemoryCaseStore() *MemoryCaseStore {
	return &MemoryCaseStore{cases: make(map[uuid.UUID]*Case)}
}

func (m *MemoryCaseStore) Create(ctx context.Context, scope tenantscope.Scope, c *Case) error {
	if !scope.AppliesTo(c.OrgID) {
		return ErrScopeViolation
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.Status == "" {
		c.Status = "draft"
	}

	stored := *c
	m.cases[c.ID] = &stored
	return nil
}

func (m *MemoryCaseStore) Get(ctx context.Context, scope tenantscope.Scope, id uuid.UUID) (*Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.cases[id]
	if !ok || !scope.AppliesTo(c.OrgID) {
		return nil, ErrCaseNotFound
	}

	out := *c
	return &out, nil
}

func (m *MemoryCaseStore) List(ctx context.Context, scope tenantscope.Scope, module modules.Module) ([]Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Case
	for _, c := range m.cases {
		if c.Module != module || !scope.AppliesTo(c.OrgID) {
			continue
		}
		out = append(out, *c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryCaseStore) AddReport(ctx context.Context, scope tenantscope.Scope, id uuid.UUID) (*Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cases[id]
	if !ok || !scope.AppliesTo(c.OrgID) {
		return nil, ErrCaseNotFound
	}

	c.ReportCount++
	out := *c
	return &out, nil
}
