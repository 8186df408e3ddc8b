package repository

import (
	"context"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, userID, id string) (*entity.Product, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, userID, id string) error
}

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, userID, id string) (*entity.Category, error)
	List(ctx context.Context, userID string) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// Delete elimina la categoría; los productos asociados quedan sin categoría (ON DELETE SET NULL).
	Delete(ctx context.Context, userID, id string) error
}
