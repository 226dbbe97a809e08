package metrics

import (
	"strings"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"static path", "/api/complaints", "/api/complaints"},
		{"health", "/health", "/health"},
		{
			"complaint by id",
			"/api/complaints/7c9f4d9e-0a41-4b8a-9c1e-111111111111",
			"/api/complaints/{id}",
		},
		{
			"nested under id",
			"/api/complaints/7c9f4d9e-0a41-4b8a-9c1e-111111111111/status",
			"/api/complaints/{id}/status",
		},
		{
			"agency by id",
			"/api/agencies/7c9f4d9e-0a41-4b8a-9c1e-222222222222",
			"/api/agencies/{id}",
		},
		{"malformed id left alone", "/api/complaints/not-a-uuid", "/api/complaints/not-a-uuid"},
		{"overlong path", "/api/" + strings.Repeat("x", 120), "/api/..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.expected {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestNormalizePathBoundedForDistinctIDs(t *testing.T) {
	// Requests for different complaints must share one label value
	a := normalizePath("/api/complaints/7c9f4d9e-0a41-4b8a-9c1e-111111111111")
	b := normalizePath("/api/complaints/7c9f4d9e-0a41-4b8a-9c1e-333333333333")
	if a != b {
		t.Errorf("distinct ids produced distinct labels: %q vs %q", a, b)
	}
}
