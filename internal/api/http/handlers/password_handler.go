package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cyberfit/membership-service/internal/api/dto"
	"github.com/cyberfit/membership-service/internal/service"
)

// PasswordHandler exposes the reset-link request and confirmation flow.
type PasswordHandler struct {
	authService *service.AuthService
}

// NewPasswordHandler constructs handler.
func NewPasswordHandler(authService *service.AuthService) *PasswordHandler {
	return &PasswordHandler{authService: authService}
}

// ForgotForm handles GET /esqueci-senha.
func (h *PasswordHandler) ForgotForm(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(`<h1>Esqueci minha senha</h1>
<form method="post" action="/esqueci-senha">
<input name="email" placeholder="E-mail">
<button type="submit">Enviar link</button>
</form>`)
}

// Forgot handles POST /esqueci-senha.
func (h *PasswordHandler) Forgot(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email obrigatório")
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusFound)
}

// ResetForm handles GET /redefinir-senha/:token. The token is verified
// before the form is shown so expired and tampered links get their own
// messages immediately.
func (h *PasswordHandler) ResetForm(c *fiber.Ctx) error {
	token := c.Params("token")
	if _, err := h.authService.VerifyResetToken(c.UserContext(), token); err != nil {
		return err
	}

	c.Type("html")
	return c.SendString(`<h1>Redefinir senha</h1>
<form method="post">
<input name="senha" type="password" placeholder="Nova senha">
<button type="submit">Redefinir</button>
</form>`)
}

// Reset handles POST /redefinir-senha/:token.
func (h *PasswordHandler) Reset(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "senha obrigatória")
	}

	if err := h.authService.ConfirmPasswordReset(c.UserContext(), c.Params("token"), req.Password); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusFound)
}
