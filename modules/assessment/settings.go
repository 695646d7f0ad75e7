package assessment

import "sync"

// Settings is the in-memory system configuration exposed through the
// /system/config endpoints. Real deployments layer this over a config
// table; the authorization semantics are identical either way.
type Settings struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewSettings creates a settings holder seeded with the given values.
func NewSettings(seed map[string]string) *Settings {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &Settings{values: values}
}

// Snapshot returns a copy of all settings.
func (s *Settings) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Apply merges the given values into the settings.
func (s *Settings) Apply(values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.values[k] = v
	}
}
