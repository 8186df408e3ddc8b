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

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

const quoteSelect = `
		SELECT d.id, d.user_id, d.client_id, c.name, d.number, d.date, d.valid_until, d.status,
		       d.net_total, d.tax_total, d.total, d.notes, d.invoice_id, d.created_at, d.updated_at
		FROM devis d
		JOIN clients c ON c.id = d.client_id`

// QuoteRepo persiste presupuestos (devis + devis_lignes).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador.
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

func (r *QuoteRepo) Create(ctx context.Context, qt *entity.Quote) error {
	if qt.ID == "" {
		qt.ID = uuid.New().String()
	}
	query := `
		INSERT INTO devis (id, user_id, client_id, number, date, valid_until, status,
		                   net_total, tax_total, total, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		qt.ID, qt.UserID, qt.ClientID, qt.Number, qt.Date, qt.ValidUntil, qt.Status,
		qt.NetTotal, qt.TaxTotal, qt.Total, qt.Notes, qt.CreatedAt, qt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return insertLines(ctx, r.q, quoteLines, qt.ID, qt.Lines)
}

func (r *QuoteRepo) GetByID(ctx context.Context, userID, id string) (*entity.Quote, error) {
	rows, err := r.q.Query(ctx, quoteSelect+` WHERE d.id = $1 AND d.user_id = $2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	list, err := scanQuotes(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	qt := list[0]
	if qt.Lines, err = loadLines(ctx, r.q, quoteLines, qt.ID); err != nil {
		return nil, err
	}
	return qt, nil
}

func (r *QuoteRepo) List(ctx context.Context, userID string, filter repository.DocumentFilter) ([]*entity.Quote, error) {
	where, args := filterClause("d", userID, filter.Status, filter.ClientID)
	page, args := pageClause(args, filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, quoteSelect+where+` ORDER BY d.date DESC, d.number DESC`+page, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return scanQuotes(rows)
}

func (r *QuoteRepo) Update(ctx context.Context, qt *entity.Quote) error {
	query := `
		UPDATE devis SET client_id = $3, date = $4, valid_until = $5, net_total = $6, tax_total = $7,
		                 total = $8, notes = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2 AND status <> 'converted'`
	cmd, err := r.q.Exec(ctx, query,
		qt.ID, qt.UserID, qt.ClientID, qt.Date, qt.ValidUntil, qt.NetTotal, qt.TaxTotal, qt.Total,
		qt.Notes, qt.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update quote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := deleteLines(ctx, r.q, quoteLines, qt.ID); err != nil {
		return err
	}
	return insertLines(ctx, r.q, quoteLines, qt.ID, qt.Lines)
}

func (r *QuoteRepo) UpdateStatus(ctx context.Context, userID, id, from, to string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE devis SET status = $4, updated_at = now() WHERE id = $1 AND user_id = $2 AND status = $3`,
		id, userID, from, to)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: le devis n'est plus en statut %s", domain.ErrConflict, from)
	}
	return nil
}

// MarkConverted solo afecta presupuestos no convertidos; una segunda conversión devuelve ErrConflict.
func (r *QuoteRepo) MarkConverted(ctx context.Context, userID, id, invoiceID string) error {
	var got string
	err := r.q.QueryRow(ctx, `
		UPDATE devis SET status = 'converted', invoice_id = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND status <> 'converted'
		RETURNING id`, id, userID, invoiceID).Scan(&got)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("mark quote converted: %w", err)
	}
	return nil
}

func (r *QuoteRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM devis WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextNumber devuelve DEV-<año>-<seq>.
func (r *QuoteRepo) NextNumber(ctx context.Context, userID string, year int) (string, error) {
	return nextNumber(ctx, r.q, "devis", "DEV", userID, year)
}

func scanQuotes(rows pgx.Rows) ([]*entity.Quote, error) {
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		var qt entity.Quote
		var invoiceID *string
		if err := rows.Scan(&qt.ID, &qt.UserID, &qt.ClientID, &qt.ClientName, &qt.Number, &qt.Date,
			&qt.ValidUntil, &qt.Status, &qt.NetTotal, &qt.TaxTotal, &qt.Total, &qt.Notes, &invoiceID,
			&qt.CreatedAt, &qt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		qt.InvoiceID = derefStr(invoiceID)
		list = append(list, &qt)
	}
	return list, rows.Err()
}
