package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/cyberfit/membership-service/internal/events"
	"github.com/cyberfit/membership-service/internal/mail"
)

// NotificationService reacts to domain events: it delivers the reset
// email and logs account lifecycle milestones.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   mail.Notifier
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier mail.Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountRegistered, n.handleAccountRegistered)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPaymentApproved, n.handlePaymentApproved)
}

func (n *NotificationService) handleAccountRegistered(_ context.Context, event events.Event) error {
	n.logger.Info("AccountRegistered", zap.String("email", event.Email), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		n.logger.Warn("PasswordResetRequested with unexpected payload", zap.String("email", event.Email))
		return nil
	}

	if err := n.notifier.SendPasswordReset(ctx, event.Email, payload.ResetLink); err != nil {
		n.logger.Error("reset email delivery failed", zap.String("email", event.Email), zap.Error(err))
		return err
	}
	n.logger.Info("reset email sent", zap.String("email", event.Email))
	return nil
}

func (n *NotificationService) handlePaymentApproved(_ context.Context, event events.Event) error {
	n.logger.Info("PaymentApproved", zap.String("email", event.Email), zap.Any("payload", event.Payload))
	return nil
}
