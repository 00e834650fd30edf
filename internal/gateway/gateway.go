package gateway

import (
	"context"
	"errors"

	"github.com/cyberfit/membership-service/internal/domain"
)

// Gateway represents a connector to the external payment provider.
// Preferences are checkout intents created per attempt; payments are
// looked up by id after a webhook hint.
type Gateway interface {
	CreatePreference(ctx context.Context, req domain.PreferenceRequest) (*domain.Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
}

var (
	// ErrNoCheckoutURL means the provider answered without an
	// init_point; the attempt failed and can be retried.
	ErrNoCheckoutURL = errors.New("preference response missing checkout url")
	// ErrPaymentNotFound means the provider does not know the payment id.
	ErrPaymentNotFound = errors.New("payment not found")
)
