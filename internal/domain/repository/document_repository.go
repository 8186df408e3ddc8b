package repository

import (
	"context"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// DocumentFilter filtros comunes de listados de documentos.
type DocumentFilter struct {
	Status   string
	ClientID string
	Limit    int
	Offset   int
}

// InvoiceRepository define el puerto de persistencia para facturas y sus líneas.
type InvoiceRepository interface {
	// Create persiste cabecera y líneas (usar dentro de una transacción).
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, userID, id string) (*entity.Invoice, error)
	List(ctx context.Context, userID string, filter DocumentFilter) ([]*entity.Invoice, error)
	// Update reemplaza cabecera editable y líneas.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// UpdateStatus pasa de from a to solo si la fila sigue en from; si no, ErrConflict.
	UpdateStatus(ctx context.Context, userID, id, from, to string) error
	Delete(ctx context.Context, userID, id string) error
	// NextNumber devuelve el siguiente consecutivo del año (ej. FAC-2026-0007).
	NextNumber(ctx context.Context, userID string, year int) (string, error)
}

// QuoteRepository define el puerto de persistencia para presupuestos.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, userID, id string) (*entity.Quote, error)
	List(ctx context.Context, userID string, filter DocumentFilter) ([]*entity.Quote, error)
	Update(ctx context.Context, quote *entity.Quote) error
	UpdateStatus(ctx context.Context, userID, id, from, to string) error
	// MarkConverted pasa el presupuesto a converted y guarda la factura generada.
	MarkConverted(ctx context.Context, userID, id, invoiceID string) error
	Delete(ctx context.Context, userID, id string) error
	NextNumber(ctx context.Context, userID string, year int) (string, error)
}

// DeliveryNoteRepository define el puerto de persistencia para bons de sortie.
type DeliveryNoteRepository interface {
	Create(ctx context.Context, note *entity.DeliveryNote) error
	GetByID(ctx context.Context, userID, id string) (*entity.DeliveryNote, error)
	List(ctx context.Context, userID string, filter DocumentFilter) ([]*entity.DeliveryNote, error)
	Delete(ctx context.Context, userID, id string) error
	NextNumber(ctx context.Context, userID string, year int) (string, error)
}
