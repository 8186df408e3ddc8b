package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/application/payment"
	"github.com/jhoicas/facturation-api/internal/domain"
)

// writeError traduce errores de dominio a status HTTP + dto.ErrorResponse.
// Los errores no tipados se registran y se responden como 500 sin detalle.
func writeError(c *fiber.Ctx, err error) error {
	var gwErr *payment.GatewayError
	switch {
	case errors.As(err, &gwErr):
		requestLogger(c).Error().Err(err).Int("gateway_status", gwErr.Status).Msg("pasarela de pago")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "GATEWAY", Message: gwErr.Message})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ressource introuvable"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "cet email est déjà utilisé"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "cette ressource existe déjà"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identifiants invalides"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "accès refusé"})
	case errors.Is(err, domain.ErrNoSubscription):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NO_SUBSCRIPTION", Message: "aucun abonnement actif"})
	case errors.Is(err, domain.ErrMissingPermission):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "MISSING_PERMISSION", Message: "permission insuffisante"})
	case errors.Is(err, domain.ErrDashboardUnavailable):
		requestLogger(c).Error().Err(err).Msg("tablero")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "DASHBOARD_UNAVAILABLE", Message: "impossible de charger les données du tableau de bord",
		})
	}
	requestLogger(c).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erreur interne du serveur"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
}

// pageFromQuery lee ?limit=&offset=.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}

func listFromQuery(c *fiber.Ctx) dto.DocumentListRequest {
	return dto.DocumentListRequest{
		PageRequest: pageFromQuery(c),
		Status:      c.Query("status"),
		ClientID:    c.Query("client_id"),
	}
}

func sendPDF(c *fiber.Ctx, content []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}
