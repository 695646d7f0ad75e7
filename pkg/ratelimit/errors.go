package ratelimit

import "errors"

var (
	ErrInvalidConfig = errors.New("ratelimit.invalid_config")
	ErrStorageFailed = errors.New("ratelimit.storage_failed")
)
