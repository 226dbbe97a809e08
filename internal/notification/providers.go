package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/civiclink/complaints/internal/shared/config"
)

// NewEmailProvider builds the SMTP email provider, or nil when the SMTP
// credentials are absent so the email channel no-ops.
func NewEmailProvider(cfg config.NotificationConfig) EmailProvider {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return nil
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &smtpEmailProvider{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost),
		from: from,
	}
}

// NewSMSProvider builds the SMS gateway provider, or nil when the
// gateway credentials are absent so the SMS channel no-ops.
func NewSMSProvider(cfg config.NotificationConfig) SMSProvider {
	if cfg.SMSAccountID == "" || cfg.SMSAuthToken == "" || cfg.SMSFrom == "" {
		return nil
	}
	return &gatewaySMSProvider{
		accountID: cfg.SMSAccountID,
		authToken: cfg.SMSAuthToken,
		from:      cfg.SMSFrom,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// smtpEmailProvider delivers email over SMTP
type smtpEmailProvider struct {
	addr string
	auth smtp.Auth
	from string
}

func (p *smtpEmailProvider) Send(ctx context.Context, msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", p.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	return smtp.SendMail(p.addr, p.auth, p.from, []string{msg.Recipient}, []byte(b.String()))
}

// gatewaySMSProvider delivers SMS through a Twilio-compatible REST gateway
type gatewaySMSProvider struct {
	accountID string
	authToken string
	from      string
	client    *http.Client
}

func (p *gatewaySMSProvider) Send(ctx context.Context, msg Message) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", p.accountID)

	form := url.Values{}
	form.Set("From", p.from)
	form.Set("To", msg.Recipient)
	form.Set("Body", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.SetBasicAuth(p.accountID, p.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}

// MockProvider records messages for tests and can be made to fail
type MockProvider struct {
	mu         sync.RWMutex
	sent       []Message
	failOnSend bool
}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Send records the message (mock implementation)
func (p *MockProvider) Send(ctx context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failOnSend {
		return fmt.Errorf("mock send failure")
	}

	p.sent = append(p.sent, msg)
	return nil
}

// SetFailOnSend sets whether Send should fail
func (p *MockProvider) SetFailOnSend(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failOnSend = fail
}

// Sent returns all recorded messages
func (p *MockProvider) Sent() []Message {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]Message, len(p.sent))
	copy(result, p.sent)
	return result
}
