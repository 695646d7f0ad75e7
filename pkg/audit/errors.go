package audit

import "errors"

var (
	// ErrEventValidation is returned when an event is missing required fields.
	ErrEventValidation = errors.New("audit.event_validation")

	// ErrStorageFailed is returned when the backing store rejects an event.
	ErrStorageFailed = errors.New("audit.storage_failed")
)
