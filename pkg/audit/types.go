package audit

import (
	"fmt"
	"time"
)

// Result represents the outcome of an audited operation.
type Result string

const (
	// ResultAllowed records an operation that passed enforcement. Demo-mode
	// operations are audited even when allowed so the trail proves isolation
	// was enforced, not just that violations were caught.
	ResultAllowed Result = "allowed"
	// ResultDenied records an operation rejected by a gate or the firewall.
	ResultDenied Result = "denied"
	// ResultOverride records a payload the firewall rewrote (tenant pinning).
	ResultOverride Result = "override"
	// ResultError records an integrity failure (e.g. unrecognized role).
	ResultError Result = "error"
)

// Event is a single audit log entry.
type Event struct {
	ID          string         `json:"id"`
	TenantID    string         `json:"tenant_id,omitempty"`
	UserID      string         `json:"user_id,omitempty"`
	Action      string         `json:"action"`
	Resource    string         `json:"resource,omitempty"`
	Result      Result         `json:"result"`
	Reason      string         `json:"reason,omitempty"`
	Method      string         `json:"method,omitempty"`
	Path        string         `json:"path,omitempty"`
	Environment string         `json:"environment,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Validate checks that the event carries the required fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// WithResource records the resource the operation targeted.
func WithResource(resource string) EventOption {
	return func(e *Event) { e.Resource = resource }
}

// WithResult records the enforcement outcome.
func WithResult(result Result) EventOption {
	return func(e *Event) { e.Result = result }
}

// WithReason records the machine-readable reason for the outcome.
func WithReason(reason string) EventOption {
	return func(e *Event) { e.Reason = reason }
}

// WithHTTPRequest records the method and path of the audited request.
func WithHTTPRequest(method, path string) EventOption {
	return func(e *Event) {
		e.Method = method
		e.Path = path
	}
}

// WithEnvironment records the deployment label the decision was made under.
func WithEnvironment(env string) EventOption {
	return func(e *Event) { e.Environment = env }
}

// WithTenant records the tenant the operation was scoped to.
func WithTenant(tenantID string) EventOption {
	return func(e *Event) { e.TenantID = tenantID }
}

// WithUser records the acting user.
func WithUser(userID string) EventOption {
	return func(e *Event) { e.UserID = userID }
}

// WithMetadata attaches an arbitrary key/value pair to the event.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}
