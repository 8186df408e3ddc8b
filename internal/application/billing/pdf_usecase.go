package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

// PDFUseCase genera el PDF de facturas, presupuestos y bons de sortie con los datos de empresa y banco.
type PDFUseCase struct {
	invoices  repository.InvoiceRepository
	quotes    repository.QuoteRepository
	notes     repository.DeliveryNoteRepository
	clients   repository.ClientRepository
	settings  repository.SettingsRepository
	generator PDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoices repository.InvoiceRepository,
	quotes repository.QuoteRepository,
	notes repository.DeliveryNoteRepository,
	clients repository.ClientRepository,
	settings repository.SettingsRepository,
	generator PDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoices:  invoices,
		quotes:    quotes,
		notes:     notes,
		clients:   clients,
		settings:  settings,
		generator: generator,
	}
}

// InvoicePDF devuelve (bytes, nombre de archivo) de una factura.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, userID, id string) ([]byte, string, error) {
	inv, err := uc.invoices.GetByID(ctx, userID, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	doc := DocumentPDF{
		Kind:           KindInvoice,
		Number:         inv.Number,
		Date:           inv.Date,
		SecondaryLabel: "Échéance",
		SecondaryDate:  inv.DueDate,
		Status:         inv.Status,
		Lines:          inv.Lines,
		ShowPrices:     true,
		NetTotal:       inv.NetTotal,
		TaxTotal:       inv.TaxTotal,
		Total:          inv.Total,
		Notes:          inv.Notes,
	}
	return uc.render(ctx, userID, inv.ClientID, doc, "facture")
}

// QuotePDF devuelve (bytes, nombre de archivo) de un presupuesto.
func (uc *PDFUseCase) QuotePDF(ctx context.Context, userID, id string) ([]byte, string, error) {
	qt, err := uc.quotes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener presupuesto: %w", err)
	}
	if qt == nil {
		return nil, "", domain.ErrNotFound
	}
	doc := DocumentPDF{
		Kind:           KindQuote,
		Number:         qt.Number,
		Date:           qt.Date,
		SecondaryLabel: "Valable jusqu'au",
		SecondaryDate:  qt.ValidUntil,
		Status:         qt.Status,
		Lines:          qt.Lines,
		ShowPrices:     true,
		NetTotal:       qt.NetTotal,
		TaxTotal:       qt.TaxTotal,
		Total:          qt.Total,
		Notes:          qt.Notes,
	}
	return uc.render(ctx, userID, qt.ClientID, doc, "devis")
}

// DeliveryNotePDF devuelve (bytes, nombre de archivo) de un bon de sortie.
func (uc *PDFUseCase) DeliveryNotePDF(ctx context.Context, userID, id string) ([]byte, string, error) {
	note, err := uc.notes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener bon de sortie: %w", err)
	}
	if note == nil {
		return nil, "", domain.ErrNotFound
	}
	doc := DocumentPDF{
		Kind:   KindDeliveryNote,
		Number: note.Number,
		Date:   note.Date,
		Lines:  note.Lines,
		Notes:  note.Notes,
	}
	return uc.render(ctx, userID, note.ClientID, doc, "bon_de_sortie")
}

// render completa cliente, empresa y banco y llama al generador.
func (uc *PDFUseCase) render(ctx context.Context, userID, clientID string, doc DocumentPDF, prefix string) ([]byte, string, error) {
	client, err := uc.clients.GetByID(ctx, userID, clientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if client == nil {
		client = &entity.Client{ID: clientID}
	}
	doc.Client = client

	if doc.Company, err = uc.settings.GetCompany(ctx, userID); err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if doc.Kind == KindInvoice {
		if doc.Bank, err = uc.settings.GetBank(ctx, userID); err != nil {
			return nil, "", fmt.Errorf("pdf: obtener banco: %w", err)
		}
	}

	out, err := uc.generator.Generate(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return out, fmt.Sprintf("%s_%s.pdf", prefix, doc.Number), nil
}
