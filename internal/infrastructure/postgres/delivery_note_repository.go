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

var _ repository.DeliveryNoteRepository = (*DeliveryNoteRepo)(nil)

const deliveryNoteSelect = `
		SELECT b.id, b.user_id, b.client_id, c.name, b.number, b.date, b.notes, b.created_at, b.updated_at
		FROM bons_de_sortie b
		JOIN clients c ON c.id = b.client_id`

// DeliveryNoteRepo persiste bons de sortie. Sus líneas no llevan precio.
type DeliveryNoteRepo struct {
	q Querier
}

// NewDeliveryNoteRepository construye el adaptador.
func NewDeliveryNoteRepository(q Querier) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{q: q}
}

func (r *DeliveryNoteRepo) Create(ctx context.Context, n *entity.DeliveryNote) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO bons_de_sortie (id, user_id, client_id, number, date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.ClientID, n.Number, n.Date, n.Notes, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert delivery note: %w", err)
	}
	query := `INSERT INTO bon_de_sortie_lignes (id, bon_id, product_id, description, quantity, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range n.Lines {
		l := &n.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.DocumentID = n.ID
		if _, err := r.q.Exec(ctx, query, l.ID, n.ID, nullIfEmpty(l.ProductID), l.Description, l.Quantity, i); err != nil {
			return fmt.Errorf("insert delivery note line: %w", err)
		}
	}
	return nil
}

func (r *DeliveryNoteRepo) GetByID(ctx context.Context, userID, id string) (*entity.DeliveryNote, error) {
	rows, err := r.q.Query(ctx, deliveryNoteSelect+` WHERE b.id = $1 AND b.user_id = $2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get delivery note: %w", err)
	}
	list, err := scanDeliveryNotes(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	n := list[0]

	lines, err := r.q.Query(ctx, `
		SELECT id, bon_id, product_id, description, quantity
		FROM bon_de_sortie_lignes WHERE bon_id = $1 ORDER BY position`, n.ID)
	if err != nil {
		return nil, fmt.Errorf("list delivery note lines: %w", err)
	}
	defer lines.Close()
	for lines.Next() {
		var l entity.DocumentLine
		var productID *string
		if err := lines.Scan(&l.ID, &l.DocumentID, &productID, &l.Description, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan delivery note line: %w", err)
		}
		l.ProductID = derefStr(productID)
		n.Lines = append(n.Lines, l)
	}
	return n, lines.Err()
}

// List ignora filter.Status: los bons de sortie no tienen ciclo de vida.
func (r *DeliveryNoteRepo) List(ctx context.Context, userID string, filter repository.DocumentFilter) ([]*entity.DeliveryNote, error) {
	where, args := filterClause("b", userID, "", filter.ClientID)
	page, args := pageClause(args, filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, deliveryNoteSelect+where+` ORDER BY b.date DESC, b.number DESC`+page, args...)
	if err != nil {
		return nil, fmt.Errorf("list delivery notes: %w", err)
	}
	return scanDeliveryNotes(rows)
}

func (r *DeliveryNoteRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM bons_de_sortie WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete delivery note: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextNumber devuelve BS-<año>-<seq>.
func (r *DeliveryNoteRepo) NextNumber(ctx context.Context, userID string, year int) (string, error) {
	return nextNumber(ctx, r.q, "bons_de_sortie", "BS", userID, year)
}

func scanDeliveryNotes(rows pgx.Rows) ([]*entity.DeliveryNote, error) {
	defer rows.Close()
	var list []*entity.DeliveryNote
	for rows.Next() {
		var n entity.DeliveryNote
		if err := rows.Scan(&n.ID, &n.UserID, &n.ClientID, &n.ClientName, &n.Number, &n.Date, &n.Notes,
			&n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery note: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
