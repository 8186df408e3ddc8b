package repository

import (
	"context"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// SettingsRepository datos de empresa y banco (una fila por usuario, semántica upsert).
type SettingsRepository interface {
	GetCompany(ctx context.Context, userID string) (*entity.CompanyInfo, error)
	UpsertCompany(ctx context.Context, info *entity.CompanyInfo) error
	GetBank(ctx context.Context, userID string) (*entity.BankInfo, error)
	UpsertBank(ctx context.Context, info *entity.BankInfo) error
}
