package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-api/internal/application/billing"
	"github.com/jhoicas/facturation-api/internal/application/dto"
)

// SettingsHandler datos de empresa y banco (/parametres del front).
type SettingsHandler struct {
	uc *billing.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *billing.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// GetCompany GET /api/settings/company
func (h *SettingsHandler) GetCompany(c *fiber.Ctx) error {
	out, err := h.uc.GetCompany(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SaveCompany PUT /api/settings/company
func (h *SettingsHandler) SaveCompany(c *fiber.Ctx) error {
	var in dto.CompanyInfoDTO
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SaveCompany(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetBank GET /api/settings/bank
func (h *SettingsHandler) GetBank(c *fiber.Ctx) error {
	out, err := h.uc.GetBank(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SaveBank PUT /api/settings/bank
func (h *SettingsHandler) SaveBank(c *fiber.Ctx) error {
	var in dto.BankInfoDTO
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SaveBank(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
