package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cyberfit/membership-service/internal/api/http/handlers"
	"github.com/cyberfit/membership-service/internal/auth"
	"github.com/cyberfit/membership-service/internal/config"
	"github.com/cyberfit/membership-service/internal/domain"
	"github.com/cyberfit/membership-service/internal/events"
	"github.com/cyberfit/membership-service/internal/gateway"
	"github.com/cyberfit/membership-service/internal/observability"
	"github.com/cyberfit/membership-service/internal/repository"
	"github.com/cyberfit/membership-service/internal/service"
)

type stubGateway struct {
	checkoutURL string
	payment     *domain.Payment
}

func (s *stubGateway) CreatePreference(_ context.Context, _ domain.PreferenceRequest) (*domain.Preference, error) {
	return &domain.Preference{ID: "pref-1", CheckoutURL: s.checkoutURL}, nil
}

func (s *stubGateway) GetPayment(_ context.Context, _ string) (*domain.Payment, error) {
	if s.payment == nil {
		return nil, gateway.ErrPaymentNotFound
	}
	return s.payment, nil
}

type testApp struct {
	app      *fiber.App
	accounts *repository.MemoryAccountRepository
	gw       *stubGateway
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.Config{
		App: config.AppConfig{Name: "test", Version: "test", PublicURL: "http://localhost:8080"},
		Auth: config.AuthConfig{
			SigningSecret:        "test-secret",
			ResetTokenMaxAgeSecs: 3600,
			SessionTTLHours:      1,
			BcryptCost:           bcrypt.MinCost,
		},
		Gateway: config.GatewayConfig{CurrencyID: "BRL", StudentPrice: 10, RegularPrice: 15},
	}

	accounts := repository.NewMemoryAccountRepository()
	sessions := auth.NewMemorySessionStore()
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	gw := &stubGateway{checkoutURL: "https://pay.example/pref-1"}

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		Accounts:   accounts,
		Sessions:   sessions,
		Dispatcher: dispatcher,
	})
	paymentService := service.NewPaymentService(cfg, accounts, gw, dispatcher, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, nil, nil),
		Pages:             handlers.NewPagesHandler(),
		Accounts:          handlers.NewAccountsHandler(authService),
		Password:          handlers.NewPasswordHandler(authService),
		Payments:          handlers.NewPaymentsHandler(paymentService, logger, metrics),
		SessionMiddleware: auth.NewSessionMiddleware(sessions, accounts),
	})

	return &testApp{app: app, accounts: accounts, gw: gw}
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (ta *testApp) register(t *testing.T, name, email, password string) {
	t.Helper()
	resp, err := ta.app.Test(formRequest("/registrar", url.Values{
		"nome":  {name},
		"email": {email},
		"senha": {password},
	}))
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("register: expected 302 to /login, got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func (ta *testApp) login(t *testing.T, email, password string) (*http.Cookie, string) {
	t.Helper()
	resp, err := ta.app.Test(formRequest("/login", url.Values{
		"email": {email},
		"senha": {password},
	}))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login: expected 302, got %d", resp.StatusCode)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookieName && cookie.Value != "" {
			return cookie, resp.Header.Get("Location")
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil, ""
}

func TestCalculatorRequiresLogin(t *testing.T) {
	ta := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/calculadora", nil)
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected 302 to /login, got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestCalculatorRequiresEntitlement(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "Ana", "ana@x.com", "senha123")
	cookie, loginTarget := ta.login(t, "ana@x.com", "senha123")

	if loginTarget != "/pagamento" {
		t.Fatalf("unpaid login should land on /pagamento, got %q", loginTarget)
	}

	req := httptest.NewRequest(http.MethodGet, "/calculadora", nil)
	req.AddCookie(cookie)
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/pagamento" {
		t.Fatalf("expected 302 to /pagamento, got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestCalculatorForEntitledAccount(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "Ana", "ana@x.com", "senha123")
	if err := ta.accounts.SetEntitled(context.Background(), "ana@x.com"); err != nil {
		t.Fatalf("entitle failed: %v", err)
	}

	cookie, loginTarget := ta.login(t, "ana@x.com", "senha123")
	if loginTarget != "/calculadora" {
		t.Fatalf("entitled login should land on /calculadora, got %q", loginTarget)
	}

	req := httptest.NewRequest(http.MethodGet, "/calculadora", nil)
	req.AddCookie(cookie)
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Ana") {
		t.Fatalf("calculator should greet the account, got: %s", body)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "Ana", "ana@x.com", "senha123")

	resp, err := ta.app.Test(formRequest("/login", url.Values{
		"email": {"ana@x.com"},
		"senha": {"errada"},
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %q", payload.Error.Code)
	}
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "Ana", "ana@x.com", "senha123")

	resp, err := ta.app.Test(formRequest("/registrar", url.Values{
		"nome":  {"Outra"},
		"email": {"ana@x.com"},
		"senha": {"outrasenha"},
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckoutRedirectsToGateway(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "Ana", "ana@x.com", "senha123")
	cookie, _ := ta.login(t, "ana@x.com", "senha123")

	req := formRequest("/pagamento", url.Values{"aluno": {"sim"}})
	req.AddCookie(cookie)
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "https://pay.example/pref-1" {
		t.Fatalf("expected redirect to checkout, got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestSuccessReturnEntitlesAndRedirects(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "Ana", "ana@x.com", "senha123")
	cookie, _ := ta.login(t, "ana@x.com", "senha123")

	req := httptest.NewRequest(http.MethodGet, "/liberando-acesso", nil)
	req.AddCookie(cookie)
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/calculadora" {
		t.Fatalf("expected 302 to /calculadora, got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	account, err := ta.accounts.GetByEmail(context.Background(), "ana@x.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !account.Entitled {
		t.Fatal("success return must entitle the account")
	}
}

func TestWebhookEntitlesPayer(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "Ana", "ana@x.com", "senha123")
	ta.gw.payment = &domain.Payment{ID: "42", Status: domain.PaymentStatusApproved, PayerEmail: "ana@x.com"}

	body := `{"type":"payment","data":{"id":"42"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	payload, _ := io.ReadAll(resp.Body)
	if len(payload) != 0 {
		t.Fatalf("expected an empty acknowledgement, got: %s", payload)
	}

	account, err := ta.accounts.GetByEmail(context.Background(), "ana@x.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !account.Entitled {
		t.Fatal("approved webhook must entitle the payer")
	}
}

func TestWebhookAlwaysAcks(t *testing.T) {
	ta := newTestApp(t)

	bodies := []string{
		"not-json",
		`{"type":"merchant_order","data":{"id":"1"}}`,
		`{"type":"payment","data":{"id":"missing"}}`,
		`{}`,
	}
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := ta.app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("body %q: expected 200, got %d", body, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ta := newTestApp(t)
	ta.register(t, "Ana", "ana@x.com", "senha123")
	cookie, _ := ta.login(t, "ana@x.com", "senha123")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatalf("logout request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected 302 to /, got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	// the old cookie no longer resolves
	req = httptest.NewRequest(http.MethodGet, "/pagamento", nil)
	req.AddCookie(cookie)
	resp, err = ta.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected 302 to /login after logout, got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestHealthLive(t *testing.T) {
	ta := newTestApp(t)

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
