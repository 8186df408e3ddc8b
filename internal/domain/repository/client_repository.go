package repository

import (
	"context"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// Todas las consultas filtran por userID (equivalente a la RLS del backend original).
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, userID, id string) (*entity.Client, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, userID, id string) error
}
