package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cyberfit/membership-service/internal/domain"
	"github.com/cyberfit/membership-service/internal/repository"
)

const (
	accountKey = "auth_account"
	sessionKey = "auth_session_id"

	// SessionCookieName is the browser cookie carrying the session id.
	SessionCookieName = "cyberfit_session"
)

// SessionMiddleware resolves the session cookie and loads the account.
type SessionMiddleware struct {
	store    SessionStore
	accounts repository.AccountRepository
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(store SessionStore, accounts repository.AccountRepository) *SessionMiddleware {
	return &SessionMiddleware{store: store, accounts: accounts}
}

// Handle enforces an authenticated session for browser routes. Anonymous
// requests are redirected to the login page rather than answered 401.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	sessionID := c.Cookies(SessionCookieName)
	if sessionID == "" {
		return c.Redirect("/login", fiber.StatusFound)
	}

	accountID, err := m.store.Resolve(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			ClearSessionCookie(c)
			return c.Redirect("/login", fiber.StatusFound)
		}
		return err
	}

	account, err := m.accounts.GetByID(c.UserContext(), accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ClearSessionCookie(c)
			return c.Redirect("/login", fiber.StatusFound)
		}
		return err
	}

	c.Locals(accountKey, account)
	c.Locals(sessionKey, sessionID)
	return c.Next()
}

// RequireEntitled gates the paid resource; unpaid accounts are sent to
// the payment page.
func RequireEntitled() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, ok := AccountFromContext(c)
		if !ok {
			return c.Redirect("/login", fiber.StatusFound)
		}
		if !account.Entitled {
			return c.Redirect("/pagamento", fiber.StatusFound)
		}
		return c.Next()
	}
}

// AccountFromContext retrieves the authenticated account.
func AccountFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	val := c.Locals(accountKey)
	if val == nil {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	return account, ok
}

// SessionIDFromContext retrieves the resolved session id.
func SessionIDFromContext(c *fiber.Ctx) (string, bool) {
	val, ok := c.Locals(sessionKey).(string)
	return val, ok && val != ""
}

// SetSessionCookie writes the session cookie on login.
func SetSessionCookie(c *fiber.Ctx, sessionID string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// ClearSessionCookie expires the session cookie on logout.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
