package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/civiclink/complaints/internal/complaint/domain"
	"github.com/civiclink/complaints/internal/shared/config"
	"github.com/civiclink/complaints/internal/shared/types"
)

func testComplaint(email, phone string) *domain.Complaint {
	c := &domain.Complaint{
		ID:        types.NewID(),
		Title:     "Pothole on Main St",
		Status:    domain.StatusInProgress,
		UserEmail: email,
		UserPhone: phone,
	}
	c.Updates = []domain.ComplaintUpdate{
		{ID: types.NewID(), ComplaintID: c.ID, Status: domain.StatusPending, Message: domain.SeedUpdateMessage},
		{ID: types.NewID(), ComplaintID: c.ID, Status: domain.StatusInProgress, Message: "Crew dispatched"},
	}
	return c
}

func TestBuildMessages(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		phone        string
		wantChannels []Channel
	}{
		{"both contacts", "citizen@example.com", "+12345678901", []Channel{ChannelEmail, ChannelSMS}},
		{"email only", "citizen@example.com", "", []Channel{ChannelEmail}},
		{"phone only", "", "+12345678901", []Channel{ChannelSMS}},
		{"no contacts", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := BuildMessages(testComplaint(tt.email, tt.phone))

			if len(messages) != len(tt.wantChannels) {
				t.Fatalf("got %d messages, want %d", len(messages), len(tt.wantChannels))
			}
			for i, ch := range tt.wantChannels {
				if messages[i].Channel != ch {
					t.Errorf("message %d channel = %q, want %q", i, messages[i].Channel, ch)
				}
			}
		})
	}
}

func TestBuildMessagesContent(t *testing.T) {
	messages := BuildMessages(testComplaint("citizen@example.com", ""))
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}

	msg := messages[0]
	if msg.Subject != "Complaint Status Update: Pothole on Main St" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "in_progress") {
		t.Errorf("body should mention the new status: %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "Crew dispatched") {
		t.Errorf("body should include the latest update message: %q", msg.Body)
	}
	if msg.Recipient != "citizen@example.com" {
		t.Errorf("recipient = %q", msg.Recipient)
	}
}

func waitForSent(t *testing.T, p *MockProvider, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(p.Sent()) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d sent messages, got %d", want, len(p.Sent()))
}

func TestServiceDeliversPerChannel(t *testing.T) {
	email := NewMockProvider()
	sms := NewMockProvider()
	svc := NewService(email, sms, config.NotificationConfig{Workers: 2, BufferSize: 10})
	svc.Start(context.Background())
	defer svc.Stop()

	svc.NotifyStatusChange(testComplaint("citizen@example.com", "+12345678901"))

	waitForSent(t, email, 1)
	waitForSent(t, sms, 1)

	if email.Sent()[0].Channel != ChannelEmail {
		t.Errorf("email provider received %q message", email.Sent()[0].Channel)
	}
	if sms.Sent()[0].Channel != ChannelSMS {
		t.Errorf("sms provider received %q message", sms.Sent()[0].Channel)
	}
}

func TestServiceSkipsUnconfiguredChannel(t *testing.T) {
	email := NewMockProvider()
	svc := NewService(email, nil, config.NotificationConfig{Workers: 1, BufferSize: 10})
	svc.Start(context.Background())
	defer svc.Stop()

	// SMS provider is nil: the sms message must be skipped without panic
	svc.NotifyStatusChange(testComplaint("citizen@example.com", "+12345678901"))

	waitForSent(t, email, 1)
}

func TestServiceSwallowsDeliveryFailures(t *testing.T) {
	email := NewMockProvider()
	email.SetFailOnSend(true)
	svc := NewService(email, nil, config.NotificationConfig{Workers: 1, BufferSize: 10})
	svc.Start(context.Background())
	defer svc.Stop()

	// Must not panic or surface the failure anywhere
	svc.NotifyStatusChange(testComplaint("citizen@example.com", ""))

	time.Sleep(50 * time.Millisecond)
	if len(email.Sent()) != 0 {
		t.Error("failed sends should not be recorded as sent")
	}
}

func TestServiceDropsWhenBufferFull(t *testing.T) {
	email := NewMockProvider()
	svc := NewService(email, nil, config.NotificationConfig{Workers: 1, BufferSize: 1})
	// Not started: the buffer fills and further messages are dropped

	for i := 0; i < 5; i++ {
		svc.NotifyStatusChange(testComplaint("citizen@example.com", ""))
	}

	// Enqueueing past a full buffer must not block or panic; nothing to assert
	// beyond returning promptly.
}

func TestProviderConstructorsRequireCredentials(t *testing.T) {
	if p := NewEmailProvider(config.NotificationConfig{}); p != nil {
		t.Error("email provider should be nil without SMTP credentials")
	}
	if p := NewSMSProvider(config.NotificationConfig{}); p != nil {
		t.Error("sms provider should be nil without gateway credentials")
	}

	cfg := config.NotificationConfig{
		SMTPHost: "smtp.example.com", SMTPPort: 587,
		SMTPUser: "portal", SMTPPass: "secret",
	}
	if p := NewEmailProvider(cfg); p == nil {
		t.Error("email provider should be configured with full SMTP credentials")
	}

	cfg = config.NotificationConfig{
		SMSAccountID: "AC123", SMSAuthToken: "token", SMSFrom: "+15550100",
	}
	if p := NewSMSProvider(cfg); p == nil {
		t.Error("sms provider should be configured with full gateway credentials")
	}
}
