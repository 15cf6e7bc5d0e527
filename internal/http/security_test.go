package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"direct", "203.0.113.7:51234", "", "203.0.113.7"},
		{"trusted proxy honors forwarded", "10.0.0.5:443", "203.0.113.7", "203.0.113.7"},
		{"untrusted peer ignores forwarded", "203.0.113.7:443", "198.51.100.1", "203.0.113.7"},
		{"garbage forwarded falls back", "10.0.0.5:443", "not-an-ip", "10.0.0.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if got := extractClientIP(r); got != tc.want {
				t.Errorf("client ip = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	cases := []struct {
		name      string
		path      string
		userAgent string
		want      bool
	}{
		{"plain api call", "/api/reports", "Mozilla/5.0", false},
		{"curl is a normal client", "/api/cards", "curl/8.5.0", false},
		{"wget is a normal client", "/api/cards", "Wget/1.21", false},
		{"scan tooling", "/api/cards", "sqlmap/1.7", true},
		{"path traversal", "/api/../etc/passwd", "Mozilla/5.0", true},
		{"wordpress admin path", "/wp-admin/setup.php", "Mozilla/5.0", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://example.com"+tc.path, nil)
			r.Header.Set("User-Agent", tc.userAgent)
			var metrics securityMetrics
			if got := detectSuspiciousRequest(r, &metrics); got != tc.want {
				t.Errorf("suspicious = %v, want %v", got, tc.want)
			}
		})
	}
}
