package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRow fila cruda de factura para el tablero (solo columnas necesarias).
type InvoiceRow struct {
	ID      string
	Date    time.Time
	DueDate time.Time
	Status  string
	Total   decimal.Decimal
}

// ProductRow producto con el nombre de su categoría (vacío si no tiene).
type ProductRow struct {
	ID           string
	CategoryID   string
	CategoryName string
}

// ClientRow cliente con su fecha de alta.
type ClientRow struct {
	ID        string
	CreatedAt time.Time
}

// DashboardRepository consultas de solo lectura que alimentan el tablero.
// Devuelve filas crudas; la agregación ocurre en la capa de aplicación.
type DashboardRepository interface {
	// InvoicesBetween devuelve las facturas cuya fecha está en [from, to], ordenadas por fecha.
	InvoicesBetween(ctx context.Context, userID string, from, to time.Time) ([]InvoiceRow, error)
	// Products devuelve todos los productos en orden de creación.
	Products(ctx context.Context, userID string) ([]ProductRow, error)
	Clients(ctx context.Context, userID string) ([]ClientRow, error)
}
