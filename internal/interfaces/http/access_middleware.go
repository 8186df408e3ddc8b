package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-api/internal/application/dto"
)

// subscriptionChecker lo implementa *access.SubscriptionService.
type subscriptionChecker interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// permissionChecker lo implementa *access.SessionService.
type permissionChecker interface {
	HasPermission(ctx context.Context, userID string, ids ...string) (bool, error)
}

// RequireSubscription exige una suscripción vigente. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 UNAUTHENTICATED → no hay usuario en el contexto.
//   - 403 NO_SUBSCRIPTION → sin suscripción o vencida (la consulta la expira de paso).
//   - 503 ACCESS_CHECK_FAILED → fallo de infraestructura al consultar.
func RequireSubscription(checker subscriptionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return unauthenticated(c)
		}
		active, err := checker.IsActive(c.Context(), userID)
		if err != nil {
			requestLogger(c).Error().Err(err).Str("user_id", userID).Msg("verificación de suscripción")
			return checkFailed(c)
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "NO_SUBSCRIPTION",
				Message: "aucun abonnement actif : activez l'essai gratuit ou souscrivez un abonnement",
			})
		}
		return c.Next()
	}
}

// RequirePermission exige todos los permisos indicados.
func RequirePermission(checker permissionChecker, ids ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return unauthenticated(c)
		}
		ok, err := checker.HasPermission(c.Context(), userID, ids...)
		if err != nil {
			requestLogger(c).Error().Err(err).Str("user_id", userID).Msg("verificación de permisos")
			return checkFailed(c)
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MISSING_PERMISSION",
				Message: "vous n'avez pas la permission d'accéder à cette ressource",
			})
		}
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:    "UNAUTHENTICATED",
		Message: "authentification requise",
	})
}

func checkFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
		Code:    "ACCESS_CHECK_FAILED",
		Message: "impossible de vérifier l'accès, réessayez plus tard",
	})
}
