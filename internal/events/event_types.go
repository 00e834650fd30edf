package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered      EventType = "account_registered"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPaymentApproved        EventType = "payment_approved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name,omitempty"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	ResetLink string `json:"reset_link"`
}

// PaymentApprovedPayload payload.
type PaymentApprovedPayload struct {
	PaymentID string `json:"payment_id"`
}
