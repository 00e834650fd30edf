package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cyberfit/membership-service/internal/api/dto"
	"github.com/cyberfit/membership-service/internal/auth"
	"github.com/cyberfit/membership-service/internal/service"
)

// AccountsHandler exposes registration, login and logout.
type AccountsHandler struct {
	authService *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{authService: authService}
}

// RegisterForm handles GET /registrar.
func (h *AccountsHandler) RegisterForm(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(`<h1>Registrar</h1>
<form method="post" action="/registrar">
<input name="nome" placeholder="Nome">
<input name="email" placeholder="E-mail">
<input name="senha" type="password" placeholder="Senha">
<button type="submit">Cadastrar</button>
</form>`)
}

// Register handles POST /registrar.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email e senha obrigatórios")
	}

	if _, err := h.authService.Register(c.UserContext(), req.Name, req.Email, req.Password); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusFound)
}

// LoginForm handles GET /login.
func (h *AccountsHandler) LoginForm(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(`<h1>Login</h1>
<form method="post" action="/login">
<input name="email" placeholder="E-mail">
<input name="senha" type="password" placeholder="Senha">
<button type="submit">Entrar</button>
</form>
<p><a href="/esqueci-senha">Esqueci minha senha</a></p>`)
}

// Login handles POST /login. Entitled accounts land on the calculator,
// everyone else on the payment page.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email e senha obrigatórios")
	}

	account, sessionID, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	auth.SetSessionCookie(c, sessionID, h.authService.SessionTTL())
	if account.Entitled {
		return c.Redirect("/calculadora", fiber.StatusFound)
	}
	return c.Redirect("/pagamento", fiber.StatusFound)
}

// Logout handles GET /logout.
func (h *AccountsHandler) Logout(c *fiber.Ctx) error {
	if sessionID, ok := auth.SessionIDFromContext(c); ok {
		if err := h.authService.Logout(c.UserContext(), sessionID); err != nil {
			return err
		}
	}
	auth.ClearSessionCookie(c)
	return c.Redirect("/", fiber.StatusFound)
}
