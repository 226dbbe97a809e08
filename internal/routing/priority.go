package routing

import "github.com/civiclink/complaints/internal/complaint/domain"

// ResolvePriority assigns a priority tier to a new submission.
//
// The current policy is a constant. It is kept as a pure function so the
// submit path can call it synchronously once severity heuristics (keyword
// escalation, repeat-submission detection) are added.
func ResolvePriority(title, description string) domain.Priority {
	return domain.PriorityMedium
}
