package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

// InvoiceUseCase crea y gestiona facturas. Cabecera, líneas y consecutivo se escriben en una sola transacción.
type InvoiceUseCase struct {
	txRunner DocumentTxRunner
	invoices repository.InvoiceRepository
	clients  repository.ClientRepository
	lines    lineResolver
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner DocumentTxRunner,
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	products repository.ProductRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner: txRunner,
		invoices: invoices,
		clients:  clients,
		lines:    lineResolver{products: products},
		now:      time.Now,
	}
}

// Create crea la factura en estado draft con número FAC-<año>-<seq>.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	client, err := requireClient(ctx, uc.clients, userID, in.ClientID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	date, due, err := invoiceDates(in, today(now))
	if err != nil {
		return nil, err
	}
	lines, err := uc.lines.resolve(ctx, userID, in.Lines, true)
	if err != nil {
		return nil, err
	}
	net, tax, total := entity.Totals(lines)
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		UserID:     userID,
		ClientID:   client.ID,
		ClientName: client.Name,
		Date:       date,
		DueDate:    due,
		Status:     entity.InvoiceStatusDraft,
		NetTotal:   net,
		TaxTotal:   tax,
		Total:      total,
		Notes:      in.Notes,
		Lines:      lines,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = uc.txRunner.RunDocuments(ctx, func(invoices repository.InvoiceRepository, _ repository.QuoteRepository, _ repository.DeliveryNoteRepository) error {
		number, err := invoices.NextNumber(ctx, userID, date.Year())
		if err != nil {
			return err
		}
		inv.Number = number
		return invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, true), nil
}

// GetByID devuelve la factura con sus líneas.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, true), nil
}

// List lista facturas (sin líneas) con filtros de estado y cliente.
func (uc *InvoiceUseCase) List(ctx context.Context, userID string, in dto.DocumentListRequest) ([]*dto.InvoiceResponse, error) {
	if in.Status != "" && !entity.IsValidInvoiceStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	list, err := uc.invoices.List(ctx, userID, toFilter(in))
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv, false))
	}
	return out, nil
}

// Update reemplaza cliente, fechas, notas y líneas. Solo se editan borradores.
func (uc *InvoiceUseCase) Update(ctx context.Context, userID, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.InvoiceStatusDraft {
		return nil, fmt.Errorf("%w: solo se editan facturas en borrador", domain.ErrConflict)
	}
	client, err := requireClient(ctx, uc.clients, userID, in.ClientID)
	if err != nil {
		return nil, err
	}
	date, due, err := invoiceDates(in, inv.Date)
	if err != nil {
		return nil, err
	}
	lines, err := uc.lines.resolve(ctx, userID, in.Lines, true)
	if err != nil {
		return nil, err
	}
	inv.ClientID, inv.ClientName = client.ID, client.Name
	inv.Date, inv.DueDate = date, due
	inv.Notes = in.Notes
	inv.Lines = lines
	inv.NetTotal, inv.TaxTotal, inv.Total = entity.Totals(lines)
	inv.UpdatedAt = uc.now()

	err = uc.txRunner.RunDocuments(ctx, func(invoices repository.InvoiceRepository, _ repository.QuoteRepository, _ repository.DeliveryNoteRepository) error {
		return invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, true), nil
}

// UpdateStatus aplica una transición draft → sent → paid | overdue, overdue → paid.
// Cualquier otro paso devuelve ErrInvalidTransition.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, userID, id string, in dto.StatusRequest) (*dto.InvoiceResponse, error) {
	if !entity.IsValidInvoiceStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	inv, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransitionInvoice(inv.Status, in.Status) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, inv.Status, in.Status)
	}
	if err := uc.invoices.UpdateStatus(ctx, userID, id, inv.Status, in.Status); err != nil {
		return nil, err
	}
	inv.Status = in.Status
	return toInvoiceResponse(inv, true), nil
}

// Delete elimina una factura en borrador; las emitidas se conservan.
func (uc *InvoiceUseCase) Delete(ctx context.Context, userID, id string) error {
	inv, err := uc.get(ctx, userID, id)
	if err != nil {
		return err
	}
	if inv.Status != entity.InvoiceStatusDraft {
		return fmt.Errorf("%w: solo se eliminan facturas en borrador", domain.ErrConflict)
	}
	return uc.invoices.Delete(ctx, userID, id)
}

func (uc *InvoiceUseCase) get(ctx context.Context, userID, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func invoiceDates(in dto.InvoiceRequest, defDate time.Time) (date, due time.Time, err error) {
	if date, err = parseDate(in.Date, defDate); err != nil {
		return
	}
	if due, err = parseDate(in.DueDate, date.AddDate(0, 0, defaultTermDays)); err != nil {
		return
	}
	if due.Before(date) {
		err = fmt.Errorf("%w: el vencimiento es anterior a la fecha", domain.ErrInvalidInput)
	}
	return
}

func toInvoiceResponse(inv *entity.Invoice, withLines bool) *dto.InvoiceResponse {
	r := &dto.InvoiceResponse{
		ID:         inv.ID,
		ClientID:   inv.ClientID,
		ClientName: inv.ClientName,
		QuoteID:    inv.QuoteID,
		Number:     inv.Number,
		Date:       formatDate(inv.Date),
		DueDate:    formatDate(inv.DueDate),
		Status:     inv.Status,
		NetTotal:   inv.NetTotal,
		TaxTotal:   inv.TaxTotal,
		Total:      inv.Total,
		Notes:      inv.Notes,
	}
	if withLines {
		r.Lines = toLineResponses(inv.Lines, true)
	}
	return r
}
