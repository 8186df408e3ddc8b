// Package konnect implementa el puerto payment.Gateway contra la API REST de Konnect
// (pasarela de pago tunecina). Los importes viajan en millimes (1 TND = 1000 millimes).
package konnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-api/internal/application/payment"
	"github.com/jhoicas/facturation-api/pkg/config"
)

var _ payment.Gateway = (*Client)(nil)

var millimesPerDinar = decimal.NewFromInt(1000)

// Client adaptador HTTP de Konnect.
type Client struct {
	baseURL    string
	apiKey     string
	walletID   string
	webhookURL string
	currency   string
	lifespan   int
	httpClient *http.Client
}

// New construye el cliente. Con APIKey o WalletID vacíos las llamadas devuelven error descriptivo.
func New(cfg config.PaymentConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		walletID:   cfg.ReceiverWalletID,
		webhookURL: cfg.WebhookURL,
		currency:   cfg.Currency,
		lifespan:   cfg.LifespanMinutes,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// ── protocolo ────────────────────────────────────────────────────────────────

type initPaymentRequest struct {
	ReceiverWalletID       string   `json:"receiverWalletId"`
	Token                  string   `json:"token"`
	Amount                 int64    `json:"amount"`
	Type                   string   `json:"type"`
	Description            string   `json:"description,omitempty"`
	AcceptedPaymentMethods []string `json:"acceptedPaymentMethods"`
	Lifespan               int      `json:"lifespan"`
	CheckoutForm           bool     `json:"checkoutForm"`
	AddPaymentFeesToAmount bool     `json:"addPaymentFeesToAmount"`
	FirstName              string   `json:"firstName,omitempty"`
	LastName               string   `json:"lastName,omitempty"`
	Email                  string   `json:"email,omitempty"`
	OrderID                string   `json:"orderId"`
	Webhook                string   `json:"webhook,omitempty"`
	SuccessURL             string   `json:"successUrl"`
	FailURL                string   `json:"failUrl"`
	Theme                  string   `json:"theme"`
}

type initPaymentResponse struct {
	PayURL     string `json:"payUrl"`
	PaymentRef string `json:"paymentRef"`
}

type getPaymentResponse struct {
	Payment struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Amount  int64  `json:"amount"`
		OrderID string `json:"orderId"`
	} `json:"payment"`
}

// errorResponse Konnect responde {"errors":[{"message":..}]} o {"message":..}.
type errorResponse struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ── puerto ───────────────────────────────────────────────────────────────────

// InitPayment crea el pago y devuelve la URL de checkout.
func (c *Client) InitPayment(ctx context.Context, in payment.InitRequest) (*payment.InitResult, error) {
	if c.apiKey == "" || c.walletID == "" {
		return nil, &payment.GatewayError{Message: "Konnect: KONNECT_API_KEY o KONNECT_WALLET_ID no configurado"}
	}
	body := initPaymentRequest{
		ReceiverWalletID:       c.walletID,
		Token:                  c.currency,
		Amount:                 ToMillimes(in.Amount),
		Type:                   "immediate",
		Description:            in.Description,
		AcceptedPaymentMethods: []string{"wallet", "bank_card", "e-DINAR"},
		Lifespan:               c.lifespan,
		CheckoutForm:           true,
		FirstName:              in.FirstName,
		LastName:               in.LastName,
		Email:                  in.Email,
		OrderID:                in.OrderID,
		Webhook:                c.webhookURL,
		SuccessURL:             in.SuccessURL,
		FailURL:                in.FailURL,
		Theme:                  "light",
	}
	var out initPaymentResponse
	if err := c.do(ctx, http.MethodPost, "/payments/init-payment", body, &out); err != nil {
		return nil, err
	}
	if out.PayURL == "" || out.PaymentRef == "" {
		return nil, &payment.GatewayError{Message: "Konnect: respuesta sin payUrl/paymentRef"}
	}
	return &payment.InitResult{PayURL: out.PayURL, PaymentRef: out.PaymentRef}, nil
}

// GetPayment consulta el estado de un pago por su referencia.
func (c *Client) GetPayment(ctx context.Context, paymentRef string) (*payment.GatewayPayment, error) {
	var out getPaymentResponse
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentRef), nil, &out); err != nil {
		return nil, err
	}
	return &payment.GatewayPayment{
		Ref:     paymentRef,
		OrderID: out.Payment.OrderID,
		Status:  out.Payment.Status,
		Amount:  FromMillimes(out.Payment.Amount),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("Konnect: serializar request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("Konnect: construir request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &payment.GatewayError{Message: fmt.Sprintf("Konnect: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &payment.GatewayError{Status: resp.StatusCode, Message: fmt.Sprintf("Konnect: leer respuesta: %v", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &payment.GatewayError{Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &payment.GatewayError{Status: resp.StatusCode, Message: fmt.Sprintf("Konnect: respuesta inválida: %v", err)}
	}
	return nil
}

func errorMessage(raw []byte, status int) string {
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil {
		if len(e.Errors) > 0 && e.Errors[0].Message != "" {
			return e.Errors[0].Message
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return fmt.Sprintf("Konnect: HTTP %d", status)
}

// ToMillimes convierte dinares a millimes (redondeo al millime).
func ToMillimes(d decimal.Decimal) int64 {
	return d.Mul(millimesPerDinar).Round(0).IntPart()
}

// FromMillimes convierte millimes a dinares.
func FromMillimes(m int64) decimal.Decimal {
	return decimal.NewFromInt(m).Div(millimesPerDinar)
}
