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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productSelect = `
		SELECT p.id, p.user_id, p.name, p.description, p.price, p.tax_rate,
		       p.category_id, c.name, p.created_at, p.updated_at
		FROM produits p
		LEFT JOIN categories c ON c.id = p.category_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO produits (id, user_id, name, description, price, tax_rate, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.UserID, p.Name, p.Description, p.Price, p.TaxRate, nullIfEmpty(p.CategoryID),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (con nombre de categoría).
func (r *ProductRepo) GetByID(ctx context.Context, userID, id string) (*entity.Product, error) {
	rows, err := r.q.Query(ctx, productSelect+` WHERE p.id = $1 AND p.user_id = $2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	list, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List lista productos del usuario en orden de creación.
func (r *ProductRepo) List(ctx context.Context, userID string, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, productSelect+` WHERE p.user_id = $1 ORDER BY p.created_at LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return scanProducts(rows)
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE produits SET name = $3, description = $4, price = $5, tax_rate = $6, category_id = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.UserID, p.Name, p.Description, p.Price, p.TaxRate, nullIfEmpty(p.CategoryID), p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto; las líneas de documentos conservan su descripción.
func (r *ProductRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM produits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var categoryID, categoryName *string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price, &p.TaxRate,
			&categoryID, &categoryName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.CategoryID = derefStr(categoryID)
		p.CategoryName = derefStr(categoryName)
		list = append(list, &p)
	}
	return list, rows.Err()
}
