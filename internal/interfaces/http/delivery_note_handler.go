package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-api/internal/application/billing"
	"github.com/jhoicas/facturation-api/internal/application/dto"
)

// DeliveryNoteHandler maneja bons de sortie.
type DeliveryNoteHandler struct {
	uc  *billing.DeliveryNoteUseCase
	pdf *billing.PDFUseCase
}

// NewDeliveryNoteHandler construye el handler.
func NewDeliveryNoteHandler(uc *billing.DeliveryNoteUseCase, pdf *billing.PDFUseCase) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{uc: uc, pdf: pdf}
}

// Create POST /api/delivery-notes
func (h *DeliveryNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.DeliveryNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/delivery-notes
func (h *DeliveryNoteHandler) List(c *fiber.Ctx) error {
	in := listFromQuery(c)
	list, err := h.uc.List(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse[*dto.DeliveryNoteResponse]{
		Items: list,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	})
}

// GetByID GET /api/delivery-notes/:id
func (h *DeliveryNoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/delivery-notes/:id
func (h *DeliveryNoteHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF GET /api/delivery-notes/:id/pdf
func (h *DeliveryNoteHandler) DownloadPDF(c *fiber.Ctx) error {
	content, filename, err := h.pdf.DeliveryNotePDF(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, content, filename)
}
