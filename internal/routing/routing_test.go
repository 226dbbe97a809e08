package routing

import (
	"testing"

	"github.com/civiclink/complaints/internal/complaint/domain"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    string
	}{
		{"pothole keyword", "There is a large pothole causing traffic issues on Main Street", "Roads"},
		{"road keyword", "The road surface is cracked near the school", "Roads"},
		{"water keyword", "No water supply in our building since Monday morning", "Utilities"},
		{"electricity keyword", "Frequent electricity outages in the evening hours", "Utilities"},
		{"crime keyword", "Increase in crime around the park after dark", "Public Safety"},
		{"safety keyword", "Broken streetlight is a safety hazard for pedestrians", "Public Safety"},
		{"case insensitive", "POTHOLE on the corner keeps growing every week", "Roads"},
		{"no match", "The library opening hours are too short for workers", "General"},
		{"empty description", "", "General"},
		{"first group wins", "The pothole flooded with water after the rain", "Roads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.description)
			if got != tt.expected {
				t.Errorf("Categorize(%q) = %q, want %q", tt.description, got, tt.expected)
			}
		})
	}
}

func TestCategorizeDeterministic(t *testing.T) {
	description := "There is a large pothole causing traffic issues on Main Street"
	first := Categorize(description)
	for i := 0; i < 10; i++ {
		if got := Categorize(description); got != first {
			t.Fatalf("Categorize is not deterministic: got %q then %q", first, got)
		}
	}
}

func TestIsAutoDetect(t *testing.T) {
	tests := []struct {
		category string
		expected bool
	}{
		{"", true},
		{CategoryAutoDetect, true},
		{"Roads", false},
		{"Other", false},
	}

	for _, tt := range tests {
		if got := IsAutoDetect(tt.category); got != tt.expected {
			t.Errorf("IsAutoDetect(%q) = %v, want %v", tt.category, got, tt.expected)
		}
	}
}

func TestResolveAgency(t *testing.T) {
	tests := []struct {
		category string
		expected string
	}{
		{"Roads", "Department of Public Works"},
		{"Road Maintenance", "Department of Public Works"},
		{"Utilities", "Utility Services"},
		{"Public Safety", "Police Department"},
		{"Public Transport", "Transportation Authority"},
		{"Waste Management", "Sanitation Department"},
		{"Other", "General Services"},
		{"General", "General Services"},
		{"Something Unknown", "General Services"},
		{"", "General Services"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := ResolveAgency(tt.category)
			if got != tt.expected {
				t.Errorf("ResolveAgency(%q) = %q, want %q", tt.category, got, tt.expected)
			}
		})
	}
}

func TestResolveAgencyTotalOverKnownCategories(t *testing.T) {
	// Every known category must map to exactly one agency
	for _, category := range KnownCategories() {
		if agency := ResolveAgency(category); agency == "" {
			t.Errorf("ResolveAgency(%q) returned empty agency", category)
		}
	}
}

func TestResolvePriority(t *testing.T) {
	if got := ResolvePriority("Pothole on Main St", "There is a large pothole on Main Street"); got != domain.PriorityMedium {
		t.Errorf("ResolvePriority = %q, want %q", got, domain.PriorityMedium)
	}

	// Placeholder policy: every submission gets the same tier
	if got := ResolvePriority("", ""); got != domain.PriorityMedium {
		t.Errorf("ResolvePriority on empty input = %q, want %q", got, domain.PriorityMedium)
	}
}
