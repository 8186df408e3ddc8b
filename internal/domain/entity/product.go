package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio facturable (tabla produits).
type Product struct {
	ID           string
	UserID       string
	Name         string
	Description  string
	Price        decimal.Decimal // precio unitario HT
	TaxRate      decimal.Decimal // porcentaje de TVA: 0, 7, 13, 19
	CategoryID   string          // vacío = sin categoría
	CategoryName string          // solo lectura, resuelto por JOIN
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
