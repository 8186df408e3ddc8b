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

// QuoteUseCase gestiona presupuestos y su conversión en factura.
type QuoteUseCase struct {
	txRunner DocumentTxRunner
	quotes   repository.QuoteRepository
	clients  repository.ClientRepository
	lines    lineResolver
	now      func() time.Time
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(
	txRunner DocumentTxRunner,
	quotes repository.QuoteRepository,
	clients repository.ClientRepository,
	products repository.ProductRepository,
) *QuoteUseCase {
	return &QuoteUseCase{
		txRunner: txRunner,
		quotes:   quotes,
		clients:  clients,
		lines:    lineResolver{products: products},
		now:      time.Now,
	}
}

// Create crea el presupuesto en draft con número DEV-<año>-<seq>.
func (uc *QuoteUseCase) Create(ctx context.Context, userID string, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	client, err := requireClient(ctx, uc.clients, userID, in.ClientID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	date, validUntil, err := quoteDates(in, today(now))
	if err != nil {
		return nil, err
	}
	lines, err := uc.lines.resolve(ctx, userID, in.Lines, true)
	if err != nil {
		return nil, err
	}
	net, tax, total := entity.Totals(lines)
	qt := &entity.Quote{
		ID:         uuid.New().String(),
		UserID:     userID,
		ClientID:   client.ID,
		ClientName: client.Name,
		Date:       date,
		ValidUntil: validUntil,
		Status:     entity.QuoteStatusDraft,
		NetTotal:   net,
		TaxTotal:   tax,
		Total:      total,
		Notes:      in.Notes,
		Lines:      lines,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.txRunner.RunDocuments(ctx, func(_ repository.InvoiceRepository, quotes repository.QuoteRepository, _ repository.DeliveryNoteRepository) error {
		number, err := quotes.NextNumber(ctx, userID, date.Year())
		if err != nil {
			return err
		}
		qt.Number = number
		return quotes.Create(ctx, qt)
	})
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(qt, true), nil
}

// GetByID devuelve el presupuesto con sus líneas.
func (uc *QuoteUseCase) GetByID(ctx context.Context, userID, id string) (*dto.QuoteResponse, error) {
	qt, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(qt, true), nil
}

// List lista presupuestos sin líneas.
func (uc *QuoteUseCase) List(ctx context.Context, userID string, in dto.DocumentListRequest) ([]*dto.QuoteResponse, error) {
	list, err := uc.quotes.List(ctx, userID, toFilter(in))
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuoteResponse, 0, len(list))
	for _, qt := range list {
		out = append(out, toQuoteResponse(qt, false))
	}
	return out, nil
}

// Update reemplaza el contenido de un presupuesto no convertido.
func (uc *QuoteUseCase) Update(ctx context.Context, userID, id string, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	qt, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if qt.Status == entity.QuoteStatusConverted {
		return nil, fmt.Errorf("%w: el presupuesto ya fue convertido", domain.ErrConflict)
	}
	client, err := requireClient(ctx, uc.clients, userID, in.ClientID)
	if err != nil {
		return nil, err
	}
	date, validUntil, err := quoteDates(in, qt.Date)
	if err != nil {
		return nil, err
	}
	lines, err := uc.lines.resolve(ctx, userID, in.Lines, true)
	if err != nil {
		return nil, err
	}
	qt.ClientID, qt.ClientName = client.ID, client.Name
	qt.Date, qt.ValidUntil = date, validUntil
	qt.Notes = in.Notes
	qt.Lines = lines
	qt.NetTotal, qt.TaxTotal, qt.Total = entity.Totals(lines)
	qt.UpdatedAt = uc.now()

	err = uc.txRunner.RunDocuments(ctx, func(_ repository.InvoiceRepository, quotes repository.QuoteRepository, _ repository.DeliveryNoteRepository) error {
		return quotes.Update(ctx, qt)
	})
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(qt, true), nil
}

// UpdateStatus cambia el estado entre draft, sent, accepted y rejected.
// converted solo lo asigna Convert y es definitivo.
func (uc *QuoteUseCase) UpdateStatus(ctx context.Context, userID, id string, in dto.StatusRequest) (*dto.QuoteResponse, error) {
	if !entity.IsValidQuoteStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	qt, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if qt.Status == entity.QuoteStatusConverted {
		return nil, fmt.Errorf("%w: el presupuesto ya fue convertido", domain.ErrInvalidTransition)
	}
	if err := uc.quotes.UpdateStatus(ctx, userID, id, qt.Status, in.Status); err != nil {
		return nil, err
	}
	qt.Status = in.Status
	return toQuoteResponse(qt, true), nil
}

// Convert genera una factura draft con las líneas del presupuesto y lo marca converted.
// Un presupuesto se convierte una sola vez; rechazados no se convierten.
func (uc *QuoteUseCase) Convert(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := uc.txRunner.RunDocuments(ctx, func(invoices repository.InvoiceRepository, quotes repository.QuoteRepository, _ repository.DeliveryNoteRepository) error {
		qt, err := quotes.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if qt == nil {
			return domain.ErrNotFound
		}
		switch qt.Status {
		case entity.QuoteStatusConverted:
			return fmt.Errorf("%w: el presupuesto ya fue convertido", domain.ErrConflict)
		case entity.QuoteStatusRejected:
			return fmt.Errorf("%w: un presupuesto rechazado no se convierte", domain.ErrInvalidTransition)
		}

		now := uc.now()
		date := today(now)
		lines := make([]entity.DocumentLine, len(qt.Lines))
		for i, l := range qt.Lines {
			l.ID, l.DocumentID = "", ""
			lines[i] = l
		}
		inv = &entity.Invoice{
			ID:         uuid.New().String(),
			UserID:     userID,
			ClientID:   qt.ClientID,
			ClientName: qt.ClientName,
			QuoteID:    qt.ID,
			Date:       date,
			DueDate:    date.AddDate(0, 0, defaultTermDays),
			Status:     entity.InvoiceStatusDraft,
			Notes:      qt.Notes,
			Lines:      lines,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		inv.NetTotal, inv.TaxTotal, inv.Total = entity.Totals(lines)
		if inv.Number, err = invoices.NextNumber(ctx, userID, date.Year()); err != nil {
			return err
		}
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		return quotes.MarkConverted(ctx, userID, qt.ID, inv.ID)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, true), nil
}

// Delete elimina un presupuesto no convertido.
func (uc *QuoteUseCase) Delete(ctx context.Context, userID, id string) error {
	qt, err := uc.get(ctx, userID, id)
	if err != nil {
		return err
	}
	if qt.Status == entity.QuoteStatusConverted {
		return fmt.Errorf("%w: el presupuesto ya fue convertido", domain.ErrConflict)
	}
	return uc.quotes.Delete(ctx, userID, id)
}

func (uc *QuoteUseCase) get(ctx context.Context, userID, id string) (*entity.Quote, error) {
	qt, err := uc.quotes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if qt == nil {
		return nil, domain.ErrNotFound
	}
	return qt, nil
}

func quoteDates(in dto.QuoteRequest, defDate time.Time) (date, validUntil time.Time, err error) {
	if date, err = parseDate(in.Date, defDate); err != nil {
		return
	}
	if validUntil, err = parseDate(in.ValidUntil, date.AddDate(0, 0, defaultTermDays)); err != nil {
		return
	}
	if validUntil.Before(date) {
		err = fmt.Errorf("%w: la validez es anterior a la fecha", domain.ErrInvalidInput)
	}
	return
}

func toQuoteResponse(qt *entity.Quote, withLines bool) *dto.QuoteResponse {
	r := &dto.QuoteResponse{
		ID:         qt.ID,
		ClientID:   qt.ClientID,
		ClientName: qt.ClientName,
		Number:     qt.Number,
		Date:       formatDate(qt.Date),
		ValidUntil: formatDate(qt.ValidUntil),
		Status:     qt.Status,
		NetTotal:   qt.NetTotal,
		TaxTotal:   qt.TaxTotal,
		Total:      qt.Total,
		Notes:      qt.Notes,
		InvoiceID:  qt.InvoiceID,
	}
	if withLines {
		r.Lines = toLineResponses(qt.Lines, true)
	}
	return r
}
