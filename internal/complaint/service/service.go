package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/civiclink/complaints/internal/complaint/domain"
	"github.com/civiclink/complaints/internal/routing"
	"github.com/civiclink/complaints/internal/shared/errors"
	"github.com/civiclink/complaints/internal/shared/metrics"
	"github.com/civiclink/complaints/internal/shared/types"
)

// Notifier dispatches a status-change message to the citizen.
// Dispatch is fire-and-forget: implementations must never block the
// caller on delivery and must swallow delivery errors.
type Notifier interface {
	NotifyStatusChange(c *domain.Complaint)
}

// Service orchestrates the complaint lifecycle operations
type Service struct {
	repo     domain.Repository
	notifier Notifier
}

// New creates a complaint service. notifier may be nil, in which case
// no notifications are dispatched.
func New(repo domain.Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// SubmitRequest carries the citizen-supplied fields of a new complaint.
// An empty Category requests keyword categorization.
type SubmitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	UserEmail   string `json:"userEmail,omitempty"`
	UserPhone   string `json:"userPhone,omitempty"`
}

// Submit validates the request, routes it to an agency and creates the
// complaint together with its seed timeline entry. Validation reports
// every violated rule at once. The citizen is notified best-effort after
// the commit.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*domain.Complaint, error) {
	violations := domain.ValidateSubmission(req.Title, req.Description, req.UserEmail, req.UserPhone)

	category := strings.TrimSpace(req.Category)
	if !routing.IsAutoDetect(category) && !knownCategory(category) {
		violations = append(violations, "Invalid category")
	}

	if len(violations) > 0 {
		return nil, errors.Validation(violations)
	}

	if routing.IsAutoDetect(category) {
		category = routing.Categorize(req.Description)
	}

	now := time.Now().UTC()
	c := &domain.Complaint{
		ID:          types.NewID(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Status:      domain.StatusPending,
		Priority:    routing.ResolvePriority(req.Title, req.Description),
		Agency:      routing.ResolveAgency(category),
		UserEmail:   strings.TrimSpace(req.UserEmail),
		UserPhone:   strings.TrimSpace(req.UserPhone),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	seed := &domain.ComplaintUpdate{
		ID:          types.NewID(),
		ComplaintID: c.ID,
		Timestamp:   now,
		Status:      domain.StatusPending,
		Message:     domain.SeedUpdateMessage,
	}

	if err := s.repo.Create(ctx, c, seed); err != nil {
		return nil, err
	}

	metrics.RecordComplaintSubmitted(c.Category, c.Agency)
	s.notify(c)

	return c, nil
}

// ChangeStatus sets the complaint to the given status and appends the
// matching timeline entry. Any known status value may be set, including
// moving backward out of a terminal state; staff correction is a
// legitimate use case.
func (s *Service) ChangeStatus(ctx context.Context, id types.ID, status domain.Status) (*domain.Complaint, error) {
	if !domain.ValidStatus(status) {
		return nil, errors.Validation([]string{fmt.Sprintf("Invalid status: %s", status)})
	}

	message := fmt.Sprintf("Status updated to %s", status)
	c, err := s.repo.AppendUpdate(ctx, id, status, message, nil)
	if err != nil {
		return nil, err
	}

	if n := len(c.Updates); n >= 2 {
		metrics.RecordStatusChange(string(c.Updates[n-2].Status), string(status))
	}
	s.notify(c)

	return c, nil
}

// AddResponse appends a staff response to the timeline. The complaint is
// always moved to in_progress, even when it was already resolved or
// rejected, so responding to a terminal complaint reopens it.
func (s *Service) AddResponse(ctx context.Context, id types.ID, message, responder string) (*domain.Complaint, error) {
	var violations []string
	if strings.TrimSpace(message) == "" {
		violations = append(violations, "Message is required")
	}
	if strings.TrimSpace(responder) == "" {
		violations = append(violations, "Responder is required")
	}
	if len(violations) > 0 {
		return nil, errors.Validation(violations)
	}

	c, err := s.repo.AppendUpdate(ctx, id, domain.StatusInProgress, message, &responder)
	if err != nil {
		return nil, err
	}

	metrics.RecordResponseAdded()
	s.notify(c)

	return c, nil
}

// Get returns a complaint with its full timeline
func (s *Service) Get(ctx context.Context, id types.ID) (*domain.Complaint, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of complaints matching the filter
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Complaint, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) notify(c *domain.Complaint) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyStatusChange(c)
}

func knownCategory(category string) bool {
	for _, known := range routing.KnownCategories() {
		if category == known {
			return true
		}
	}
	return false
}
