// Package logger builds slog loggers with environment-appropriate defaults
// and context-driven attribute injection. Security-relevant components
// (permission gates, the demo firewall, the identity resolver) register
// extractors so every denial record automatically carries the request id,
// tenant and environment without per-call-site plumbing.
package logger
