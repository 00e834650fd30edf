package domain

// PaymentStatus enumerates the gateway-reported payment states this
// service reacts to. Anything else is carried opaquely and ignored.
type PaymentStatus string

const (
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// PreferenceRequest describes one checkout attempt sent to the gateway.
type PreferenceRequest struct {
	Title           string
	Quantity        int
	CurrencyID      string
	UnitPrice       int
	PayerEmail      string
	SuccessURL      string
	FailureURL      string
	NotificationURL string
}

// Preference is the gateway's answer to a created checkout attempt.
// CheckoutURL is the external location the payer is redirected to.
type Preference struct {
	ID          string
	CheckoutURL string
}

// Payment is the re-queried state of a payment, fetched by ID after a
// webhook hint. The webhook payload itself never carries the status.
type Payment struct {
	ID         string
	Status     PaymentStatus
	PayerEmail string
}
