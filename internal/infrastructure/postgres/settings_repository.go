package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo datos de empresa y banco, una fila por usuario.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func (r *SettingsRepo) GetCompany(ctx context.Context, userID string) (*entity.CompanyInfo, error) {
	var c entity.CompanyInfo
	err := r.q.QueryRow(ctx, `
		SELECT user_id, name, address, phone, email, tax_id, logo_url, updated_at
		FROM company_info WHERE user_id = $1`, userID).Scan(
		&c.UserID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.TaxID, &c.LogoURL, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company info: %w", err)
	}
	return &c, nil
}

func (r *SettingsRepo) UpsertCompany(ctx context.Context, c *entity.CompanyInfo) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO company_info (user_id, name, address, phone, email, tax_id, logo_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		   SET name = EXCLUDED.name, address = EXCLUDED.address, phone = EXCLUDED.phone,
		       email = EXCLUDED.email, tax_id = EXCLUDED.tax_id, logo_url = EXCLUDED.logo_url,
		       updated_at = EXCLUDED.updated_at`,
		c.UserID, c.Name, c.Address, c.Phone, c.Email, c.TaxID, c.LogoURL, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert company info: %w", err)
	}
	return nil
}

func (r *SettingsRepo) GetBank(ctx context.Context, userID string) (*entity.BankInfo, error) {
	var b entity.BankInfo
	err := r.q.QueryRow(ctx, `
		SELECT user_id, bank_name, account_name, rib, iban, swift, updated_at
		FROM bank_info WHERE user_id = $1`, userID).Scan(
		&b.UserID, &b.BankName, &b.AccountName, &b.RIB, &b.IBAN, &b.SWIFT, &b.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank info: %w", err)
	}
	return &b, nil
}

func (r *SettingsRepo) UpsertBank(ctx context.Context, b *entity.BankInfo) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO bank_info (user_id, bank_name, account_name, rib, iban, swift, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		   SET bank_name = EXCLUDED.bank_name, account_name = EXCLUDED.account_name, rib = EXCLUDED.rib,
		       iban = EXCLUDED.iban, swift = EXCLUDED.swift, updated_at = EXCLUDED.updated_at`,
		b.UserID, b.BankName, b.AccountName, b.RIB, b.IBAN, b.SWIFT, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert bank info: %w", err)
	}
	return nil
}
