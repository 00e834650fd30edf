package dto

// CheckoutRequest carries the single tier-selecting flag from the
// payment form. "sim" selects the discounted student price.
type CheckoutRequest struct {
	Student string `json:"aluno" form:"aluno"`
}

// IsStudent reports whether the discounted tier applies.
func (r CheckoutRequest) IsStudent() bool {
	return r.Student == "sim"
}

// WebhookNotification is the inbound payload from the payment provider.
// It hints at a payment id; the status is never taken from here.
type WebhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}
