// Package httpserver runs the API's HTTP listener with graceful shutdown on
// context cancellation or an interrupt/TERM signal, plus a combined
// liveness/readiness probe handler.
package httpserver
