package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/assesskit/assesskit/pkg/clientip"
)

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "x-forwarded-for wins",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1", "X-Real-IP": "10.0.0.2"},
			remoteAddr: "172.16.0.1:443",
			want:       "203.0.113.5",
		},
		{
			name:       "invalid forwarded entries are skipped",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip, 203.0.113.5"},
			remoteAddr: "172.16.0.1:443",
			want:       "203.0.113.5",
		},
		{
			name:       "x-real-ip fallback",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			remoteAddr: "172.16.0.1:443",
			want:       "198.51.100.7",
		},
		{
			name:       "remote addr fallback",
			remoteAddr: "172.16.0.1:443",
			want:       "172.16.0.1",
		},
		{
			name:       "spoofed garbage falls through to socket",
			headers:    map[string]string{"X-Forwarded-For": "<script>", "X-Real-IP": "nope"},
			remoteAddr: "172.16.0.1:443",
			want:       "172.16.0.1",
		},
		{
			name:       "ipv6 normalized",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.Get(req))
		})
	}
}
