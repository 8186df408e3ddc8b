package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceSelect = `
		SELECT f.id, f.user_id, f.client_id, c.name, f.quote_id, f.number, f.date, f.due_date, f.status,
		       f.net_total, f.tax_total, f.total, f.notes, f.created_at, f.updated_at
		FROM factures f
		JOIN clients c ON c.id = f.client_id`

// InvoiceRepo persiste facturas (cabecera + facture_lignes).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Para Create/Update pasar una tx.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create inserta cabecera y líneas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO factures (id, user_id, client_id, quote_id, number, date, due_date, status,
		                      net_total, tax_total, total, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.UserID, inv.ClientID, nullIfEmpty(inv.QuoteID), inv.Number, inv.Date, inv.DueDate, inv.Status,
		inv.NetTotal, inv.TaxTotal, inv.Total, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return insertLines(ctx, r.q, invoiceLines, inv.ID, inv.Lines)
}

// GetByID devuelve la factura con sus líneas; nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, userID, id string) (*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, invoiceSelect+` WHERE f.id = $1 AND f.user_id = $2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	list, err := scanInvoices(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	inv := list[0]
	if inv.Lines, err = loadLines(ctx, r.q, invoiceLines, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

// List lista cabeceras (sin líneas), más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, userID string, filter repository.DocumentFilter) ([]*entity.Invoice, error) {
	where, args := filterClause("f", userID, filter.Status, filter.ClientID)
	page, args := pageClause(args, filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, invoiceSelect+where+` ORDER BY f.date DESC, f.number DESC`+page, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return scanInvoices(rows)
}

// Update reemplaza cabecera editable y líneas.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE factures SET client_id = $3, date = $4, due_date = $5, net_total = $6, tax_total = $7,
		                    total = $8, notes = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		inv.ID, inv.UserID, inv.ClientID, inv.Date, inv.DueDate, inv.NetTotal, inv.TaxTotal, inv.Total,
		inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := deleteLines(ctx, r.q, invoiceLines, inv.ID); err != nil {
		return err
	}
	return insertLines(ctx, r.q, invoiceLines, inv.ID, inv.Lines)
}

// UpdateStatus cambia solo el estado. La validez de la transición la decide el caso de uso;
// el UPDATE exige que la fila siga en from, así dos peticiones no aplican transiciones cruzadas.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, userID, id, from, to string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE factures SET status = $4, updated_at = now() WHERE id = $1 AND user_id = $2 AND status = $3`,
		id, userID, from, to)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: la facture n'est plus en statut %s", domain.ErrConflict, from)
	}
	return nil
}

// Delete elimina la factura (las líneas caen en cascada).
func (r *InvoiceRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM factures WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextNumber devuelve FAC-<año>-<seq>.
func (r *InvoiceRepo) NextNumber(ctx context.Context, userID string, year int) (string, error) {
	return nextNumber(ctx, r.q, "factures", "FAC", userID, year)
}

func scanInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		var quoteID *string
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.ClientID, &inv.ClientName, &quoteID, &inv.Number,
			&inv.Date, &inv.DueDate, &inv.Status, &inv.NetTotal, &inv.TaxTotal, &inv.Total, &inv.Notes,
			&inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.QuoteID = derefStr(quoteID)
		list = append(list, &inv)
	}
	return list, rows.Err()
}
