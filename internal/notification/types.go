package notification

import (
	"fmt"

	"github.com/civiclink/complaints/internal/complaint/domain"
)

// Channel is a delivery channel
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Message is a single status-change notification bound for one channel
type Message struct {
	Channel     Channel `json:"channel"`
	Recipient   string  `json:"recipient"`
	Subject     string  `json:"subject"`
	Body        string  `json:"body"`
	ComplaintID string  `json:"complaint_id"`
}

// BuildMessages renders the per-channel messages for a complaint's latest
// update. Channels without a contact address are skipped.
func BuildMessages(c *domain.Complaint) []Message {
	var updateLine string
	if latest := c.LatestUpdate(); latest != nil {
		updateLine = fmt.Sprintf(" Latest update: %s", latest.Message)
	}

	var messages []Message

	if c.UserEmail != "" {
		messages = append(messages, Message{
			Channel:     ChannelEmail,
			Recipient:   c.UserEmail,
			Subject:     fmt.Sprintf("Complaint Status Update: %s", c.Title),
			Body:        fmt.Sprintf("Your complaint %q has been updated to %q.%s", c.Title, c.Status, updateLine),
			ComplaintID: c.ID.String(),
		})
	}

	if c.UserPhone != "" {
		messages = append(messages, Message{
			Channel:     ChannelSMS,
			Recipient:   c.UserPhone,
			Body:        fmt.Sprintf("Complaint %q updated to %s.%s", c.Title, c.Status, updateLine),
			ComplaintID: c.ID.String(),
		})
	}

	return messages
}
