package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// Plazo por defecto de vencimiento de facturas y validez de presupuestos.
const defaultTermDays = 30

// DefaultTaxRate TVA aplicada cuando ni la línea ni el producto la indican.
var DefaultTaxRate = decimal.NewFromInt(19)

var hundred = decimal.NewFromInt(100)

// parseDate interpreta YYYY-MM-DD; vacío devuelve def.
func parseDate(s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (formato YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// lineResolver completa las líneas con los datos del producto referenciado.
type lineResolver struct {
	products repository.ProductRepository
}

// resolve valida las líneas y las convierte a entidades. Con priced=false (bons de sortie)
// se ignoran precio e impuesto.
func (r lineResolver) resolve(ctx context.Context, userID string, in []dto.LineRequest, priced bool) ([]entity.DocumentLine, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: el documento necesita al menos una línea", domain.ErrInvalidInput)
	}
	lines := make([]entity.DocumentLine, 0, len(in))
	for i, l := range in {
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d: cantidad debe ser mayor que cero", domain.ErrInvalidInput, i+1)
		}
		line := entity.DocumentLine{
			ProductID:   strings.TrimSpace(l.ProductID),
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity,
		}
		var product *entity.Product
		if line.ProductID != "" {
			p, err := r.products.GetByID(ctx, userID, line.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, fmt.Errorf("%w: línea %d: producto inexistente", domain.ErrInvalidInput, i+1)
			}
			product = p
			if line.Description == "" {
				line.Description = p.Name
			}
		}
		if line.Description == "" {
			return nil, fmt.Errorf("%w: línea %d: descripción requerida", domain.ErrInvalidInput, i+1)
		}
		if priced {
			switch {
			case l.UnitPrice != nil:
				line.UnitPrice = *l.UnitPrice
			case product != nil:
				line.UnitPrice = product.Price
			default:
				return nil, fmt.Errorf("%w: línea %d: precio requerido", domain.ErrInvalidInput, i+1)
			}
			switch {
			case l.TaxRate != nil:
				line.TaxRate = *l.TaxRate
			case product != nil:
				line.TaxRate = product.TaxRate
			default:
				line.TaxRate = DefaultTaxRate
			}
			if line.UnitPrice.IsNegative() {
				return nil, fmt.Errorf("%w: línea %d: precio negativo", domain.ErrInvalidInput, i+1)
			}
			if line.TaxRate.IsNegative() || line.TaxRate.GreaterThan(hundred) {
				return nil, fmt.Errorf("%w: línea %d: TVA fuera de rango", domain.ErrInvalidInput, i+1)
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func toLineResponses(lines []entity.DocumentLine, priced bool) []dto.LineResponse {
	out := make([]dto.LineResponse, 0, len(lines))
	for _, l := range lines {
		r := dto.LineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
		}
		if priced {
			price, tax, net := l.UnitPrice, l.TaxRate, l.Net()
			r.UnitPrice, r.TaxRate, r.Net = &price, &tax, &net
		}
		out = append(out, r)
	}
	return out
}

func toFilter(in dto.DocumentListRequest) repository.DocumentFilter {
	in.DefaultPage()
	return repository.DocumentFilter{
		Status:   strings.TrimSpace(in.Status),
		ClientID: strings.TrimSpace(in.ClientID),
		Limit:    in.Limit,
		Offset:   in.Offset,
	}
}

// requireClient comprueba que el cliente existe y pertenece al usuario.
func requireClient(ctx context.Context, clients repository.ClientRepository, userID, clientID string) (*entity.Client, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("%w: cliente requerido", domain.ErrInvalidInput)
	}
	c, err := clients.GetByID(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
	}
	return c, nil
}
