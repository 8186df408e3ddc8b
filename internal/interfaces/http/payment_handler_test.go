package http_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/application/payment"
	"github.com/jhoicas/facturation-api/internal/domain"
	apphttp "github.com/jhoicas/facturation-api/internal/interfaces/http"
)

// fakeFlow replica la validación de payment.UseCase y registra las llamadas.
type fakeFlow struct {
	initCalls  int
	gatewayErr error
	confirmed  []string
	failed     []string
}

func (f *fakeFlow) Init(_ context.Context, _ string, in dto.InitPaymentRequest) (*dto.InitPaymentResponse, error) {
	if !in.Amount.IsPositive() || strings.TrimSpace(in.OrderID) == "" {
		return nil, fmt.Errorf("%w: amount et orderId sont requis", domain.ErrInvalidInput)
	}
	f.initCalls++
	if f.gatewayErr != nil {
		return nil, f.gatewayErr
	}
	return &dto.InitPaymentResponse{PayURL: "https://pay.example/" + in.OrderID, PaymentRef: "ref-1"}, nil
}

func (f *fakeFlow) Confirm(_ context.Context, _ string, orderID string) (*dto.PaymentConfirmResponse, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: orderId requis", domain.ErrInvalidInput)
	}
	f.confirmed = append(f.confirmed, orderID)
	return &dto.PaymentConfirmResponse{OrderID: orderID, Status: "completed"}, nil
}

func (f *fakeFlow) Fail(_ context.Context, _ string, orderID string) error {
	f.failed = append(f.failed, orderID)
	return nil
}

func paymentApp(flow *fakeFlow) *fiber.App {
	h := apphttp.NewPaymentHandler(flow)
	app := fiber.New()
	g := app.Group("/api/payments", apphttp.AuthMiddleware(testJWTSecret))
	g.Post("/init", h.Init)
	g.Post("/init-payment", h.Init)
	g.Post("/confirm", h.Confirm)
	g.Post("/fail", h.Fail)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestPaymentInit_CamposFaltantes_400SinPasarela(t *testing.T) {
	flow := &fakeFlow{}
	app := paymentApp(flow)

	for _, body := range []string{`{"orderId":"ORD-1"}`, `{"amount":120}`, `{}`} {
		code, out := post(t, app, "/api/payments/init", body)
		assert.Equal(t, http.StatusBadRequest, code, body)
		assert.Contains(t, out, "VALIDATION")
	}
	assert.Zero(t, flow.initCalls)
}

func TestPaymentInit_AliasDevuelvePayURL(t *testing.T) {
	flow := &fakeFlow{}
	app := paymentApp(flow)

	for _, path := range []string{"/api/payments/init", "/api/payments/init-payment"} {
		code, out := post(t, app, path, `{"amount":"120.000","orderId":"ORD-7"}`)
		assert.Equal(t, http.StatusOK, code, path)
		assert.Contains(t, out, `"payUrl":"https://pay.example/ORD-7"`)
	}
	assert.Equal(t, 2, flow.initCalls)
}

func TestPaymentInit_ErrorDePasarela_500(t *testing.T) {
	flow := &fakeFlow{gatewayErr: &payment.GatewayError{Status: 401, Message: "clé API invalide"}}
	code, out := post(t, paymentApp(flow), "/api/payments/init", `{"amount":50,"orderId":"ORD-2"}`)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, out, "GATEWAY")
	assert.Contains(t, out, "clé API invalide")
}

func TestPaymentInit_BodyInvalido(t *testing.T) {
	code, out := post(t, paymentApp(&fakeFlow{}), "/api/payments/init", `{no-json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, out, "INVALID_BODY")
}

func TestPaymentConfirm_OrderIDDesdeQueryOBody(t *testing.T) {
	flow := &fakeFlow{}
	app := paymentApp(flow)

	code, _ := post(t, app, "/api/payments/confirm?orderId=ORD-Q", "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = post(t, app, "/api/payments/confirm", `{"orderId":"ORD-B"}`)
	assert.Equal(t, http.StatusOK, code)
	code, _ = post(t, app, "/api/payments/confirm", "")
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Equal(t, []string{"ORD-Q", "ORD-B"}, flow.confirmed)
}

func TestPaymentFail_204(t *testing.T) {
	flow := &fakeFlow{}
	code, _ := post(t, paymentApp(flow), "/api/payments/fail", `{"orderId":"ORD-3"}`)
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, []string{"ORD-3"}, flow.failed)
}
