package httpserver

import "errors"

var (
	ErrStartFailed    = errors.New("httpserver.start_failed")
	ErrShutdownFailed = errors.New("httpserver.shutdown_failed")
)
