package identity

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore implements UserStore in memory. Used in tests and demo
// deployments that seed fixture accounts at startup.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]*User
	orgs  map[int64]*Organization
}

// NewMemoryStore creates an empty in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]*User),
		orgs:  make(map[int64]*Organization),
	}
}

// PutUser inserts or replaces a user record.
func (m *MemoryStore) PutUser(user User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Organization = nil // always joined fresh on read
	m.users[user.ID] = &user
}

// PutOrganization inserts or replaces an organization record.
func (m *MemoryStore) PutOrganization(org Organization) {
	m.mu.Lock()
	defer m.mu.Unlock()
	org.Modules = slices.Clone(org.Modules)
	m.orgs[org.ID] = &org
}

// DeactivateOrganization soft-deletes an organization. It fails while any
// active member remains.
func (m *MemoryStore) DeactivateOrganization(orgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.OrgID == orgID && u.Active {
			return ErrStorageFailed
		}
	}

	org, ok := m.orgs[orgID]
	if !ok {
		return ErrUserNotFound
	}
	org.Active = false
	return nil
}

func (m *MemoryStore) GetUserWithOrganization(ctx context.Context, userID int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	return m.join(user), nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			return m.join(user), nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryStore) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.LastLoginAt = at
	return nil
}

// ListUsersByOrg returns the organization's users ordered by id.
func (m *MemoryStore) ListUsersByOrg(ctx context.Context, orgID int64) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []User
	for _, user := range m.users {
		if user.OrgID == orgID {
			out = append(out, *m.join(user))
		}
	}
	slices.SortFunc(out, func(a, b User) int {
		return int(a.ID - b.ID)
	})
	return out, nil
}

// join returns a copy of the user with its organization attached.
func (m *MemoryStore) join(user *User) *User {
	out := *user
	if org, ok := m.orgs[user.OrgID]; ok {
		orgCopy := *org
		orgCopy.Modules = slices.Clone(org.Modules)
		out.Organization = &orgCopy
	}
	return &out
}
