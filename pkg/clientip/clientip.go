// Package clientip extracts the originating client address from proxied
// requests. Used as the rate-limit key for the login endpoints.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Get returns the client IP, preferring proxy headers over the socket
// address: X-Forwarded-For (first valid entry), then X-Real-IP, then
// RemoteAddr. Invalid entries are skipped rather than trusted.
func Get(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for part := range strings.SplitSeq(forwarded, ",") {
			if ip := parse(part); ip != "" {
				return ip
			}
		}
	}

	if ip := parse(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parse(r.RemoteAddr)
	}
	return parse(host)
}

// parse validates and normalizes an IP string; invalid input yields "".
func parse(raw string) string {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return ""
	}
	return ip.String()
}
