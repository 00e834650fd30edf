package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cyberfit/membership-service/internal/config"
	"github.com/cyberfit/membership-service/internal/domain"
)

// HTTPGateway talks to a Mercado-Pago-style REST API with a bearer
// access token. Responses are decoded into typed structs and validated
// at the boundary; missing fields are reported as errors, never trusted.
type HTTPGateway struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

// NewHTTPGateway builds the client from configuration.
func NewHTTPGateway(cfg config.GatewayConfig) *HTTPGateway {
	return &HTTPGateway{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		client:      &http.Client{Timeout: cfg.Timeout()},
	}
}

type preferenceItem struct {
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	CurrencyID string `json:"currency_id"`
	UnitPrice  int    `json:"unit_price"`
}

type preferencePayload struct {
	Items []preferenceItem `json:"items"`
	Payer struct {
		Email string `json:"email"`
	} `json:"payer"`
	BackURLs struct {
		Success string `json:"success"`
		Failure string `json:"failure"`
	} `json:"back_urls"`
	AutoReturn      string `json:"auto_return"`
	NotificationURL string `json:"notification_url"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type paymentResponse struct {
	ID     json.Number `json:"id"`
	Status string      `json:"status"`
	Payer  struct {
		Email string `json:"email"`
	} `json:"payer"`
}

// CreatePreference registers a checkout attempt and returns the external
// checkout URL the payer should be redirected to.
func (g *HTTPGateway) CreatePreference(ctx context.Context, req domain.PreferenceRequest) (*domain.Preference, error) {
	payload := preferencePayload{
		Items: []preferenceItem{{
			Title:      req.Title,
			Quantity:   req.Quantity,
			CurrencyID: req.CurrencyID,
			UnitPrice:  req.UnitPrice,
		}},
		AutoReturn:      "approved",
		NotificationURL: req.NotificationURL,
	}
	payload.Payer.Email = req.PayerEmail
	payload.BackURLs.Success = req.SuccessURL
	payload.BackURLs.Failure = req.FailureURL

	var resp preferenceResponse
	if err := g.do(ctx, http.MethodPost, "/checkout/preferences", payload, &resp); err != nil {
		return nil, err
	}
	if resp.InitPoint == "" {
		return nil, ErrNoCheckoutURL
	}
	return &domain.Preference{ID: resp.ID, CheckoutURL: resp.InitPoint}, nil
}

// GetPayment re-queries the provider for the current state of a payment.
func (g *HTTPGateway) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var resp paymentResponse
	err := g.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status == "" {
		return nil, fmt.Errorf("payment %s: response missing status", paymentID)
	}
	return &domain.Payment{
		ID:         resp.ID.String(),
		Status:     domain.PaymentStatus(resp.Status),
		PayerEmail: resp.Payer.Email,
	}, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrPaymentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway %s %s: decode response: %w", method, path, err)
	}
	return nil
}
