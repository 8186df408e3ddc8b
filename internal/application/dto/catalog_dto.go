package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientRequest body para POST/PUT /api/clients.
type ClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	TaxID     string    `json:"tax_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductRequest body para POST/PUT /api/products.
// TaxRate en porcentaje; si es nil se aplica 19.
type ProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"`
	CategoryID  string           `json:"category_id,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	CategoryID   string          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CategoryRequest body para POST/PUT /api/categories.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse categoría en respuestas.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
