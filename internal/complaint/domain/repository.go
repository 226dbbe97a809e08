package domain

import (
	"context"

	"github.com/civiclink/complaints/internal/shared/types"
)

// ListFilter defines filters and pagination for listing complaints
type ListFilter struct {
	Status   *Status
	Category string
	Agency   string
	Page     int
	Limit    int
}

// Normalize applies pagination defaults
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
}

// Offset returns the row offset for the current page
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Repository persists complaints and their timelines
type Repository interface {
	// Create atomically writes the complaint and its seed update.
	// Either both rows persist or neither does.
	Create(ctx context.Context, c *Complaint, seed *ComplaintUpdate) error

	// FindByID returns the complaint with updates ordered oldest first,
	// or a NotFound error.
	FindByID(ctx context.Context, id types.ID) (*Complaint, error)

	// List returns a page of complaints ordered by creation time
	// descending, plus the total count matching the filter.
	List(ctx context.Context, filter ListFilter) ([]Complaint, int, error)

	// AppendUpdate atomically appends a timeline entry and mirrors
	// status/updated_at on the parent row. Returns the full record with
	// its timeline, or a NotFound error when id is absent. Concurrent
	// appends on the same id serialize on the parent row lock.
	AppendUpdate(ctx context.Context, id types.ID, status Status, message string, responder *string) (*Complaint, error)
}
