package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/civiclink/complaints/internal/complaint/domain"
	"github.com/civiclink/complaints/internal/shared/errors"
	"github.com/civiclink/complaints/internal/shared/types"
)

// memoryRepository is an in-memory domain.Repository for tests. A mutex
// stands in for the database's row-level locking so concurrent appends
// serialize the same way the postgres implementation does.
type memoryRepository struct {
	mu         sync.Mutex
	complaints map[types.ID]*domain.Complaint
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{complaints: make(map[types.ID]*domain.Complaint)}
}

func (r *memoryRepository) Create(ctx context.Context, c *domain.Complaint, seed *domain.ComplaintUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.complaints[c.ID]; exists {
		return errors.Conflict("complaint with this id already exists")
	}

	stored := *c
	stored.Updates = []domain.ComplaintUpdate{*seed}
	r.complaints[c.ID] = &stored

	c.Updates = []domain.ComplaintUpdate{*seed}
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id types.ID) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.complaints[id]
	if !ok {
		return nil, errors.NotFound("complaint", id.String())
	}

	return copyComplaint(c), nil
}

func (r *memoryRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Complaint, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filter.Normalize()

	var matched []domain.Complaint
	for _, c := range r.complaints {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Agency != "" && c.Agency != filter.Agency {
			continue
		}
		cc := *c
		cc.Updates = nil
		matched = append(matched, cc)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (r *memoryRepository) AppendUpdate(ctx context.Context, id types.ID, status domain.Status, message string, responder *string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.complaints[id]
	if !ok {
		return nil, errors.NotFound("complaint", id.String())
	}

	now := time.Now().UTC()
	c.Updates = append(c.Updates, domain.ComplaintUpdate{
		ID:          types.NewID(),
		ComplaintID: id,
		Timestamp:   now,
		Status:      status,
		Message:     message,
		Responder:   responder,
	})
	c.Status = status
	c.UpdatedAt = now

	return copyComplaint(c), nil
}

func copyComplaint(c *domain.Complaint) *domain.Complaint {
	cc := *c
	cc.Updates = make([]domain.ComplaintUpdate, len(c.Updates))
	copy(cc.Updates, c.Updates)
	return &cc
}

// mockNotifier records which complaints it was asked to notify about
type mockNotifier struct {
	mu       sync.Mutex
	notified []types.ID
}

func (n *mockNotifier) NotifyStatusChange(c *domain.Complaint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, c.ID)
}

func (n *mockNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notified)
}
