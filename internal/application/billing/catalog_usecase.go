package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

// Tasas de TVA admitidas en el catálogo.
var allowedTaxRates = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromInt(7),
	decimal.NewFromInt(13),
	decimal.NewFromInt(19),
}

// ProductUseCase casos de uso CRUD para productos.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories}
}

// Create crea un nuevo producto. Sin tax_rate se aplica DefaultTaxRate.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	rate, err := uc.validate(ctx, userID, &in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		TaxRate:     rate,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	// Recarga para obtener el nombre de la categoría.
	return uc.GetByID(ctx, userID, product.ID)
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, userID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos del usuario.
func (uc *ProductUseCase) List(ctx context.Context, userID string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update actualiza un producto. Las líneas ya emitidas conservan su precio.
func (uc *ProductUseCase) Update(ctx context.Context, userID, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	rate, err := uc.validate(ctx, userID, &in)
	if err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.TaxRate = rate
	product.CategoryID = in.CategoryID
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, userID, id)
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.repo.Delete(ctx, userID, id)
}

func (uc *ProductUseCase) validate(ctx context.Context, userID string, in *dto.ProductRequest) (decimal.Decimal, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if in.Name == "" {
		return decimal.Zero, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	rate := DefaultTaxRate
	if in.TaxRate != nil {
		rate = *in.TaxRate
	}
	if !isAllowedTaxRate(rate) {
		return decimal.Zero, fmt.Errorf("%w: TVA %s no admitida (0, 7, 13, 19)", domain.ErrInvalidInput, rate.String())
	}
	if in.CategoryID != "" {
		cat, err := uc.categories.GetByID(ctx, userID, in.CategoryID)
		if err != nil {
			return decimal.Zero, err
		}
		if cat == nil {
			return decimal.Zero, fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
		}
	}
	return rate, nil
}

func isAllowedTaxRate(rate decimal.Decimal) bool {
	for _, r := range allowedTaxRates {
		if rate.Equal(r) {
			return true
		}
	}
	return false
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		TaxRate:      p.TaxRate,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		CreatedAt:    p.CreatedAt,
	}
}

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría. El nombre es único por usuario (ErrDuplicate).
func (uc *CategoryUseCase) Create(ctx context.Context, userID string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	cat := &entity.Category{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// List lista todas las categorías del usuario.
func (uc *CategoryUseCase) List(ctx context.Context, userID string) ([]*dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// Update renombra o describe una categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, userID, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	cat, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	cat.Name = in.Name
	cat.Description = in.Description
	cat.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// Delete elimina la categoría; sus productos quedan sin categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.repo.Delete(ctx, userID, id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}
