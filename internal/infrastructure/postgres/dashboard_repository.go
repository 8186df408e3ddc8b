package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// InvoicesBetween facturas con fecha en [from, to].
func (r *DashboardRepo) InvoicesBetween(ctx context.Context, userID string, from, to time.Time) ([]repository.InvoiceRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, date, due_date, status, total
		FROM factures
		WHERE user_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date, number`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard invoices: %w", err)
	}
	defer rows.Close()
	var list []repository.InvoiceRow
	for rows.Next() {
		var row repository.InvoiceRow
		if err := rows.Scan(&row.ID, &row.Date, &row.DueDate, &row.Status, &row.Total); err != nil {
			return nil, fmt.Errorf("scan dashboard invoice: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// Products productos con su categoría, en orden de creación.
func (r *DashboardRepo) Products(ctx context.Context, userID string) ([]repository.ProductRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.category_id, c.name
		FROM produits p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.user_id = $1
		ORDER BY p.created_at, p.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard products: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductRow
	for rows.Next() {
		var row repository.ProductRow
		var categoryID, categoryName *string
		if err := rows.Scan(&row.ID, &categoryID, &categoryName); err != nil {
			return nil, fmt.Errorf("scan dashboard product: %w", err)
		}
		row.CategoryID = derefStr(categoryID)
		row.CategoryName = derefStr(categoryName)
		list = append(list, row)
	}
	return list, rows.Err()
}

// Clients clientes con su fecha de alta.
func (r *DashboardRepo) Clients(ctx context.Context, userID string) ([]repository.ClientRow, error) {
	rows, err := r.q.Query(ctx, `SELECT id, created_at FROM clients WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard clients: %w", err)
	}
	defer rows.Close()
	var list []repository.ClientRow
	for rows.Next() {
		var row repository.ClientRow
		if err := rows.Scan(&row.ID, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dashboard client: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
