package notification

import (
	"context"
	"log"
	"sync"

	"github.com/civiclink/complaints/internal/complaint/domain"
	"github.com/civiclink/complaints/internal/shared/config"
	"github.com/civiclink/complaints/internal/shared/metrics"
)

// EmailProvider delivers email messages
type EmailProvider interface {
	Send(ctx context.Context, msg Message) error
}

// SMSProvider delivers SMS messages
type SMSProvider interface {
	Send(ctx context.Context, msg Message) error
}

// Service dispatches status-change notifications through a worker pool.
// Dispatch is fire-and-forget: enqueueing never blocks the caller, a full
// buffer drops the message, and delivery errors are logged and counted
// but never propagated. A channel whose provider is nil is silently
// skipped.
type Service struct {
	emailProvider EmailProvider
	smsProvider   SMSProvider

	msgCh   chan Message
	workers int

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewService creates a notification service. Either provider may be nil
// when that channel is unconfigured.
func NewService(emailProvider EmailProvider, smsProvider SMSProvider, cfg config.NotificationConfig) *Service {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	buffer := cfg.BufferSize
	if buffer < 1 {
		buffer = 100
	}

	return &Service{
		emailProvider: emailProvider,
		smsProvider:   smsProvider,
		msgCh:         make(chan Message, buffer),
		workers:       workers,
		stopCh:        make(chan struct{}),
	}
}

// Start launches the worker pool
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
}

// Stop drains the workers. Buffered messages that have not been picked
// up yet are lost, which is acceptable: a missed notification is simply
// lost.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false

	close(s.stopCh)
	s.wg.Wait()
}

// NotifyStatusChange enqueues notifications for the complaint's latest
// update. Implements the complaint service's Notifier.
func (s *Service) NotifyStatusChange(c *domain.Complaint) {
	for _, msg := range BuildMessages(c) {
		select {
		case s.msgCh <- msg:
		default:
			metrics.RecordNotificationDropped()
			log.Printf("notification buffer full, dropping %s notification for complaint %s", msg.Channel, msg.ComplaintID)
		}
	}
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case msg := <-s.msgCh:
			s.deliver(ctx, msg)
		}
	}
}

func (s *Service) deliver(ctx context.Context, msg Message) {
	var err error

	switch msg.Channel {
	case ChannelEmail:
		if s.emailProvider == nil {
			log.Printf("email channel not configured, skipping notification for complaint %s", msg.ComplaintID)
			return
		}
		err = s.emailProvider.Send(ctx, msg)
	case ChannelSMS:
		if s.smsProvider == nil {
			log.Printf("sms channel not configured, skipping notification for complaint %s", msg.ComplaintID)
			return
		}
		err = s.smsProvider.Send(ctx, msg)
	default:
		log.Printf("unknown notification channel: %s", msg.Channel)
		return
	}

	if err != nil {
		metrics.RecordNotificationFailed(string(msg.Channel))
		log.Printf("%s notification failed for complaint %s: %v", msg.Channel, msg.ComplaintID, err)
		return
	}

	metrics.RecordNotificationSent(string(msg.Channel))
}
