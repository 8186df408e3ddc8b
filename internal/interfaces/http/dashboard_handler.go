package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/facturation-api/internal/application/analytics"
)

// DashboardHandler maneja el endpoint del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get devuelve las cuatro series del tablero y el resumen.
// GET /api/dashboard?from=YYYY-MM-DD&to=YYYY-MM-DD
//
// Sin parámetros el rango es del 1 de enero al día de hoy.
// Si alguna consulta falla responde 500 DASHBOARD_UNAVAILABLE sin datos parciales.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	from, to, err := h.uc.ParseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.Context(), GetUserID(c), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
