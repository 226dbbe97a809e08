package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/civiclink/complaints/internal/shared/types"
)

// Status defines the lifecycle status of a complaint
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
	StatusClosed     Status = "closed"
)

// ValidStatus reports whether s is a known lifecycle status
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected, StatusClosed:
		return true
	}
	return false
}

// Priority defines complaint priority
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Complaint is a citizen-filed issue tracked through the status lifecycle
type Complaint struct {
	ID          types.ID `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`

	// Agency is resolved once at submission time and stored as a label
	Agency string `json:"agency"`

	// Citizen contact, used only for notifications
	UserEmail string `json:"user_email,omitempty"`
	UserPhone string `json:"user_phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Updates is the append-only timeline, oldest first. Non-empty after
	// creation; the last entry's status always mirrors Status.
	Updates []ComplaintUpdate `json:"updates"`
}

// LatestUpdate returns the most recent timeline entry, or nil when the
// timeline has not been loaded
func (c *Complaint) LatestUpdate() *ComplaintUpdate {
	if len(c.Updates) == 0 {
		return nil
	}
	return &c.Updates[len(c.Updates)-1]
}

// ComplaintUpdate is an immutable, timestamped timeline entry
type ComplaintUpdate struct {
	ID          types.ID  `json:"id"`
	ComplaintID types.ID  `json:"complaint_id"`
	Timestamp   time.Time `json:"timestamp"`
	Status      Status    `json:"status"`
	Message     string    `json:"message"`
	Responder   *string   `json:"responder,omitempty"`
}

// SeedUpdateMessage is recorded as the first timeline entry of every complaint.
const SeedUpdateMessage = "Complaint submitted successfully"

// Field bounds for submissions
const (
	TitleMinLen       = 5
	TitleMaxLen       = 100
	DescriptionMinLen = 20
	DescriptionMaxLen = 1000
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateSubmission checks the citizen-supplied fields of a new complaint
// and returns every violated rule, not just the first. Fields are trimmed
// before measuring; bounds count characters, not bytes.
func ValidateSubmission(title, description, userEmail, userPhone string) []string {
	var violations []string

	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < TitleMinLen || n > TitleMaxLen {
		violations = append(violations,
			fmt.Sprintf("Title must be between %d and %d characters", TitleMinLen, TitleMaxLen))
	}

	description = strings.TrimSpace(description)
	if n := utf8.RuneCountInString(description); n < DescriptionMinLen || n > DescriptionMaxLen {
		violations = append(violations,
			fmt.Sprintf("Description must be between %d and %d characters", DescriptionMinLen, DescriptionMaxLen))
	}

	if email := strings.TrimSpace(userEmail); email != "" && !emailPattern.MatchString(email) {
		violations = append(violations, "Invalid email address")
	}

	if phone := strings.TrimSpace(userPhone); phone != "" && !phonePattern.MatchString(phone) {
		violations = append(violations, "Invalid phone number")
	}

	return violations
}
