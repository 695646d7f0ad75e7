package core

import (
	"encoding/json"
	"net/http"
)

// Field is an optional diagnostic attached to an error response, such as
// requiredRole/currentRole on an authorization denial. Diagnostics must never
// carry another tenant's data; callers only attach values the requester
// already supplied or owns.
type Field struct {
	Key   string
	Value any
}

// F constructs a diagnostic field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// WriteJSON writes an arbitrary payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes the standard deny-response shape:
//
//	{"error": "...", "code": "...", <diagnostic fields>}
//
// Every terminal response produced by the gate chain goes through here so
// clients can rely on a single structure for 400/401/403/500/503 outcomes.
func WriteError(w http.ResponseWriter, status int, code, message string, fields ...Field) {
	body := make(map[string]any, len(fields)+2)
	body["error"] = message
	body["code"] = code
	for _, f := range fields {
		if f.Key == "" || f.Key == "error" || f.Key == "code" {
			continue
		}
		body[f.Key] = f.Value
	}
	WriteJSON(w, status, body)
}

// WriteHTTPError renders an HTTPError with an optional human-readable message.
func WriteHTTPError(w http.ResponseWriter, err HTTPError, message string, fields ...Field) {
	if message == "" {
		message = http.StatusText(err.Status)
	}
	WriteError(w, err.Status, err.Code, message, fields...)
}
