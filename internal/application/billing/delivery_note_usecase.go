package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

// DeliveryNoteUseCase gestiona bons de sortie (salidas de mercancía sin importes).
type DeliveryNoteUseCase struct {
	txRunner DocumentTxRunner
	notes    repository.DeliveryNoteRepository
	clients  repository.ClientRepository
	lines    lineResolver
	now      func() time.Time
}

// NewDeliveryNoteUseCase construye el caso de uso.
func NewDeliveryNoteUseCase(
	txRunner DocumentTxRunner,
	notes repository.DeliveryNoteRepository,
	clients repository.ClientRepository,
	products repository.ProductRepository,
) *DeliveryNoteUseCase {
	return &DeliveryNoteUseCase{
		txRunner: txRunner,
		notes:    notes,
		clients:  clients,
		lines:    lineResolver{products: products},
		now:      time.Now,
	}
}

// Create registra el bon con número BS-<año>-<seq>.
func (uc *DeliveryNoteUseCase) Create(ctx context.Context, userID string, in dto.DeliveryNoteRequest) (*dto.DeliveryNoteResponse, error) {
	client, err := requireClient(ctx, uc.clients, userID, in.ClientID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	date, err := parseDate(in.Date, today(now))
	if err != nil {
		return nil, err
	}
	lines, err := uc.lines.resolve(ctx, userID, in.Lines, false)
	if err != nil {
		return nil, err
	}
	note := &entity.DeliveryNote{
		ID:         uuid.New().String(),
		UserID:     userID,
		ClientID:   client.ID,
		ClientName: client.Name,
		Date:       date,
		Notes:      in.Notes,
		Lines:      lines,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.txRunner.RunDocuments(ctx, func(_ repository.InvoiceRepository, _ repository.QuoteRepository, notes repository.DeliveryNoteRepository) error {
		number, err := notes.NextNumber(ctx, userID, date.Year())
		if err != nil {
			return err
		}
		note.Number = number
		return notes.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	return toDeliveryNoteResponse(note, true), nil
}

// GetByID devuelve el bon con sus líneas.
func (uc *DeliveryNoteUseCase) GetByID(ctx context.Context, userID, id string) (*dto.DeliveryNoteResponse, error) {
	note, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toDeliveryNoteResponse(note, true), nil
}

// List lista bons; el filtro de estado no aplica.
func (uc *DeliveryNoteUseCase) List(ctx context.Context, userID string, in dto.DocumentListRequest) ([]*dto.DeliveryNoteResponse, error) {
	list, err := uc.notes.List(ctx, userID, toFilter(in))
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DeliveryNoteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toDeliveryNoteResponse(n, false))
	}
	return out, nil
}

// Delete elimina un bon.
func (uc *DeliveryNoteUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.notes.Delete(ctx, userID, id)
}

func (uc *DeliveryNoteUseCase) get(ctx context.Context, userID, id string) (*entity.DeliveryNote, error) {
	note, err := uc.notes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrNotFound
	}
	return note, nil
}

func toDeliveryNoteResponse(n *entity.DeliveryNote, withLines bool) *dto.DeliveryNoteResponse {
	r := &dto.DeliveryNoteResponse{
		ID:         n.ID,
		ClientID:   n.ClientID,
		ClientName: n.ClientName,
		Number:     n.Number,
		Date:       formatDate(n.Date),
		Notes:      n.Notes,
	}
	if withLines {
		r.Lines = toLineResponses(n.Lines, false)
	}
	return r
}
