package notification

import "time"

const Topic = "hr.notification.v1"

const (
	EventAccessRequested     = "access_requested"
	EventUserApproved        = "user_approved"
	EventUserRejected        = "user_rejected"
	EventApplicationApproved = "application_approved"
	EventApplicationRejected = "application_rejected"
)

// MailEvent is the payload carried through the outbox and the broker; the
// notifier turns it into an outbound email.
type MailEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}
