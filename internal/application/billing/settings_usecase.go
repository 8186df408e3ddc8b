package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

// SettingsUseCase lee y guarda los datos de empresa y banco impresos en los documentos.
type SettingsUseCase struct {
	repo repository.SettingsRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// GetCompany devuelve los datos de empresa; vacíos si aún no se configuraron.
func (uc *SettingsUseCase) GetCompany(ctx context.Context, userID string) (*dto.CompanyInfoDTO, error) {
	info, err := uc.repo.GetCompany(ctx, userID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return &dto.CompanyInfoDTO{}, nil
	}
	return &dto.CompanyInfoDTO{
		Name:    info.Name,
		Address: info.Address,
		Phone:   info.Phone,
		Email:   info.Email,
		TaxID:   info.TaxID,
		LogoURL: info.LogoURL,
	}, nil
}

// SaveCompany crea o reemplaza los datos de empresa.
func (uc *SettingsUseCase) SaveCompany(ctx context.Context, userID string, in dto.CompanyInfoDTO) (*dto.CompanyInfoDTO, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: razón social requerida", domain.ErrInvalidInput)
	}
	err := uc.repo.UpsertCompany(ctx, &entity.CompanyInfo{
		UserID:    userID,
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     strings.TrimSpace(in.Email),
		TaxID:     strings.TrimSpace(in.TaxID),
		LogoURL:   in.LogoURL,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return uc.GetCompany(ctx, userID)
}

// GetBank devuelve los datos bancarios; vacíos si aún no se configuraron.
func (uc *SettingsUseCase) GetBank(ctx context.Context, userID string) (*dto.BankInfoDTO, error) {
	info, err := uc.repo.GetBank(ctx, userID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return &dto.BankInfoDTO{}, nil
	}
	return &dto.BankInfoDTO{
		BankName:    info.BankName,
		AccountName: info.AccountName,
		RIB:         info.RIB,
		IBAN:        info.IBAN,
		SWIFT:       info.SWIFT,
	}, nil
}

// SaveBank crea o reemplaza los datos bancarios.
func (uc *SettingsUseCase) SaveBank(ctx context.Context, userID string, in dto.BankInfoDTO) (*dto.BankInfoDTO, error) {
	rib := strings.ReplaceAll(strings.TrimSpace(in.RIB), " ", "")
	if rib != "" && len(rib) != 20 {
		return nil, fmt.Errorf("%w: el RIB debe tener 20 dígitos", domain.ErrInvalidInput)
	}
	err := uc.repo.UpsertBank(ctx, &entity.BankInfo{
		UserID:      userID,
		BankName:    strings.TrimSpace(in.BankName),
		AccountName: strings.TrimSpace(in.AccountName),
		RIB:         rib,
		IBAN:        strings.ReplaceAll(strings.TrimSpace(in.IBAN), " ", ""),
		SWIFT:       strings.ToUpper(strings.TrimSpace(in.SWIFT)),
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return uc.GetBank(ctx, userID)
}
