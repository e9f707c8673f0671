package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		xff        string
		realIP     string
		trustProxy bool
		want       string
	}{
		{"remote addr only", "10.0.0.5:4321", "", "", false, "10.0.0.5"},
		{"proxy headers ignored without trust", "10.0.0.5:4321", "1.2.3.4", "", false, "10.0.0.5"},
		{"first forwarded-for wins", "10.0.0.5:4321", "1.2.3.4, 5.6.7.8", "", true, "1.2.3.4"},
		{"x-real-ip fallback", "10.0.0.5:4321", "", "9.9.9.9", true, "9.9.9.9"},
		{"no headers falls back to remote", "10.0.0.5:4321", "", "", true, "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"192.168.1.10", "10.0.0.0/8", " ", "garbage"})
	if m.IsEmpty() {
		t.Fatal("matcher with valid entries should not be empty")
	}

	tests := []struct {
		ip   string
		want bool
	}{
		{"192.168.1.10", true},
		{"192.168.1.11", false},
		{"10.1.2.3", true},
		{"11.0.0.1", false},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("matcher with no entries should be empty")
	}
}
