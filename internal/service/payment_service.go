package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cyberfit/membership-service/internal/config"
	"github.com/cyberfit/membership-service/internal/domain"
	"github.com/cyberfit/membership-service/internal/events"
	"github.com/cyberfit/membership-service/internal/gateway"
	"github.com/cyberfit/membership-service/internal/repository"
	apperrors "github.com/cyberfit/membership-service/pkg/util"
)

// WebhookOutcome classifies what a notification delivery resulted in.
// The HTTP endpoint acknowledges success regardless; outcomes exist so
// failures stay observable in logs and counters.
type WebhookOutcome string

const (
	WebhookOutcomeEntitled       WebhookOutcome = "entitled"
	WebhookOutcomeIgnoredType    WebhookOutcome = "ignored_type"
	WebhookOutcomeStatusIgnored  WebhookOutcome = "status_ignored"
	WebhookOutcomeUnknownAccount WebhookOutcome = "unknown_account"
	WebhookOutcomeLookupFailed   WebhookOutcome = "lookup_failed"
)

const checkoutTitle = "Acesso à Calculadora"

// PaymentService owns the entitlement workflow: checkout initiation,
// the synchronous return path and webhook confirmation.
type PaymentService struct {
	accounts   repository.AccountRepository
	gw         gateway.Gateway
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.GatewayConfig
	publicURL  string
}

// NewPaymentService builds the service.
func NewPaymentService(cfg config.Config, accounts repository.AccountRepository, gw gateway.Gateway, dispatcher events.Dispatcher, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		accounts:   accounts,
		gw:         gw,
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg.Gateway,
		publicURL:  cfg.App.PublicURL,
	}
}

// Price returns the tier for a checkout attempt; a single student flag
// selects between the discounted and the standard price.
func (s *PaymentService) Price(student bool) int {
	if student {
		return s.cfg.StudentPrice
	}
	return s.cfg.RegularPrice
}

// StartCheckout creates a payment preference for the account and returns
// the external checkout URL. Failure leaves the account unchanged and
// the attempt can be retried.
func (s *PaymentService) StartCheckout(ctx context.Context, account *domain.Account, student bool) (string, error) {
	pref, err := s.gw.CreatePreference(ctx, domain.PreferenceRequest{
		Title:           checkoutTitle,
		Quantity:        1,
		CurrencyID:      s.cfg.CurrencyID,
		UnitPrice:       s.Price(student),
		PayerEmail:      account.Email,
		SuccessURL:      s.publicURL + "/liberando-acesso",
		FailureURL:      s.publicURL + "/falhou",
		NotificationURL: s.publicURL + "/webhook",
	})
	if err != nil {
		return "", apperrors.NewGatewayError(err)
	}
	return pref.CheckoutURL, nil
}

// ConfirmReturn sets the entitlement flag for the authenticated account
// when the gateway redirects back through the success URL. Nothing is
// re-verified against the gateway here; the redirect alone is trusted,
// which is a known integrity gap kept for compatibility. The webhook
// path below is the verified one.
func (s *PaymentService) ConfirmReturn(ctx context.Context, account *domain.Account) error {
	if err := s.accounts.SetEntitled(ctx, account.Email); err != nil {
		return err
	}
	account.Entitled = true
	return nil
}

// HandleNotification processes one inbound webhook delivery. The payload
// only hints at a payment id; the current status is always re-queried
// from the gateway. Only an approved payment mutates an account, and
// setting the flag twice is idempotent.
func (s *PaymentService) HandleNotification(ctx context.Context, eventType, paymentID string) (WebhookOutcome, error) {
	if eventType != "payment" || paymentID == "" {
		s.logger.Info("webhook ignored", zap.String("event_type", eventType))
		return WebhookOutcomeIgnoredType, nil
	}

	payment, err := s.gw.GetPayment(ctx, paymentID)
	if err != nil {
		s.logger.Warn("webhook payment lookup failed",
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
		return WebhookOutcomeLookupFailed, err
	}

	if payment.Status != domain.PaymentStatusApproved {
		s.logger.Info("webhook payment not approved",
			zap.String("payment_id", paymentID),
			zap.String("status", string(payment.Status)),
		)
		return WebhookOutcomeStatusIgnored, nil
	}

	if err := s.accounts.SetEntitled(ctx, payment.PayerEmail); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("webhook payer account not found",
				zap.String("payment_id", paymentID),
				zap.String("payer_email", payment.PayerEmail),
			)
			return WebhookOutcomeUnknownAccount, nil
		}
		return WebhookOutcomeLookupFailed, err
	}

	s.logger.Info("payment confirmed",
		zap.String("payment_id", paymentID),
		zap.String("payer_email", payment.PayerEmail),
	)
	s.publish(ctx, events.Event{
		Type:    events.EventPaymentApproved,
		Email:   payment.PayerEmail,
		Payload: events.PaymentApprovedPayload{PaymentID: paymentID},
	})
	return WebhookOutcomeEntitled, nil
}

func (s *PaymentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
