package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cyberfit/membership-service/internal/auth"
)

// PagesHandler serves the public landing page and the gated calculator.
type PagesHandler struct{}

// NewPagesHandler returns a new handler instance.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Index handles GET /.
func (h *PagesHandler) Index(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(`<h1>CyberFit</h1>
<p><a href="/registrar">Registrar</a> | <a href="/login">Login</a></p>`)
}

// Calculator handles GET /calculadora. Entitlement is enforced by
// middleware before this runs.
func (h *PagesHandler) Calculator(c *fiber.Ctx) error {
	account, _ := auth.AccountFromContext(c)
	name := ""
	if account != nil {
		name = account.Name
	}

	c.Type("html")
	return c.SendString(`<h1>Calculadora</h1>
<p>Bem-vindo, ` + name + `.</p>
<p><a href="/logout">Sair</a></p>`)
}
