package session

import (
	"net/http"
	"time"
)

// Transport moves session tokens between the client and the server.
type Transport interface {
	// GetToken extracts the session token from the request.
	GetToken(r *http.Request) (string, error)

	// SetToken delivers the session token to the client.
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error

	// ClearToken removes the session token from the client.
	ClearToken(w http.ResponseWriter) error
}
