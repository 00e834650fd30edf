package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cyberfit/membership-service/internal/api/dto"
	"github.com/cyberfit/membership-service/internal/auth"
	"github.com/cyberfit/membership-service/internal/observability"
	"github.com/cyberfit/membership-service/internal/service"
)

// PaymentsHandler exposes checkout initiation, the gateway return paths
// and the asynchronous webhook.
type PaymentsHandler struct {
	payments *service.PaymentService
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService, logger *zap.Logger, metrics *observability.Metrics) *PaymentsHandler {
	return &PaymentsHandler{payments: payments, logger: logger, metrics: metrics}
}

// PaymentForm handles GET /pagamento. Already entitled accounts skip
// straight to the calculator.
func (h *PaymentsHandler) PaymentForm(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}
	if account.Entitled {
		return c.Redirect("/calculadora", fiber.StatusFound)
	}

	c.Type("html")
	return c.SendString(`<h1>Pagamento</h1>
<form method="post" action="/pagamento">
<label><input type="checkbox" name="aluno" value="sim"> Sou aluno</label>
<button type="submit">Pagar</button>
</form>`)
}

// StartCheckout handles POST /pagamento and redirects to the external
// checkout URL.
func (h *PaymentsHandler) StartCheckout(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}
	if account.Entitled {
		return c.Redirect("/calculadora", fiber.StatusFound)
	}

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	checkoutURL, err := h.payments.StartCheckout(c.UserContext(), account, req.IsStudent())
	if err != nil {
		return err
	}
	return c.Redirect(checkoutURL, fiber.StatusFound)
}

// Success handles GET /liberando-acesso, the synchronous confirmation
// path driven by the gateway's success redirect.
func (h *PaymentsHandler) Success(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}

	if err := h.payments.ConfirmReturn(c.UserContext(), account); err != nil {
		return err
	}
	return c.Redirect("/calculadora", fiber.StatusFound)
}

// Failure handles GET /falhou; the attempt can be retried from the
// payment page.
func (h *PaymentsHandler) Failure(c *fiber.Ctx) error {
	return c.Redirect("/pagamento", fiber.StatusFound)
}

// Webhook handles POST /webhook. Whatever happens internally, the
// provider is acknowledged with 200 and an empty body so it does not
// hammer the endpoint with redeliveries. Failures are logged and
// counted instead.
func (h *PaymentsHandler) Webhook(c *fiber.Ctx) error {
	var notification dto.WebhookNotification
	if err := c.BodyParser(&notification); err != nil {
		h.logger.Warn("webhook payload malformed", zap.Error(err))
		h.metrics.RecordWebhookOutcome("malformed")
		return c.Status(http.StatusOK).Send(nil)
	}

	outcome, err := h.payments.HandleNotification(c.UserContext(), notification.Type, notification.Data.ID)
	if err != nil {
		h.logger.Warn("webhook processing failed",
			zap.String("payment_id", notification.Data.ID),
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
	}
	h.metrics.RecordWebhookOutcome(string(outcome))

	return c.Status(http.StatusOK).Send(nil)
}
