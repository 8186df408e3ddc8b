package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-api/internal/application/dto"
)

// paymentFlow lo implementa *payment.UseCase.
type paymentFlow interface {
	Init(ctx context.Context, userID string, in dto.InitPaymentRequest) (*dto.InitPaymentResponse, error)
	Confirm(ctx context.Context, userID, orderID string) (*dto.PaymentConfirmResponse, error)
	Fail(ctx context.Context, userID, orderID string) error
}

// PaymentHandler inicia y cierra pagos Konnect del abono.
type PaymentHandler struct {
	uc paymentFlow
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc paymentFlow) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Init godoc
// @Summary      Iniciar pago del abono
// @Description  Llama a Konnect y devuelve la URL de pago. Sin amount u orderId responde 400 sin llamar a la pasarela.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitPaymentRequest  true  "amount (TND), orderId, datos del pagador"
// @Success      200   {object}  dto.InitPaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/payments/init [post]
func (h *PaymentHandler) Init(c *fiber.Ctx) error {
	var in dto.InitPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Init(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm POST /api/payments/confirm. orderId en el body o en ?orderId= (retorno de la pasarela).
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	orderID, err := orderIDFrom(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Confirm(c.Context(), GetUserID(c), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Fail POST /api/payments/fail
func (h *PaymentHandler) Fail(c *fiber.Ctx) error {
	orderID, err := orderIDFrom(c)
	if err != nil {
		return invalidBody(c)
	}
	if err := h.uc.Fail(c.Context(), GetUserID(c), orderID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func orderIDFrom(c *fiber.Ctx) (string, error) {
	if q := strings.TrimSpace(c.Query("orderId")); q != "" {
		return q, nil
	}
	if len(c.Body()) == 0 {
		return "", nil
	}
	var in dto.PaymentOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return "", err
	}
	return strings.TrimSpace(in.OrderID), nil
}
