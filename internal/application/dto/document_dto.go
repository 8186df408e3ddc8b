package dto

import "github.com/shopspring/decimal"

// LineRequest línea de documento. Si ProductID viene y faltan descripción/precio/IVA se toman del producto.
type LineRequest struct {
	ProductID   string           `json:"product_id,omitempty"`
	Description string           `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"`
}

// LineResponse línea de documento en respuestas.
type LineResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"product_id,omitempty"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"`
	Net         *decimal.Decimal `json:"net,omitempty"`
}

// InvoiceRequest body para POST/PUT /api/invoices. Fechas en YYYY-MM-DD.
type InvoiceRequest struct {
	ClientID string        `json:"client_id" validate:"required"`
	Date     string        `json:"date,omitempty"`
	DueDate  string        `json:"due_date,omitempty"`
	Notes    string        `json:"notes,omitempty"`
	Lines    []LineRequest `json:"lines"`
}

// StatusRequest body para PATCH /api/invoices/:id/status y /api/quotes/:id/status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// InvoiceResponse factura en respuestas. Lines vacío en listados.
type InvoiceResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name,omitempty"`
	QuoteID    string          `json:"quote_id,omitempty"`
	Number     string          `json:"number"`
	Date       string          `json:"date"`
	DueDate    string          `json:"due_date"`
	Status     string          `json:"status"`
	NetTotal   decimal.Decimal `json:"net_total"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
	Total      decimal.Decimal `json:"total"`
	Notes      string          `json:"notes,omitempty"`
	Lines      []LineResponse  `json:"lines,omitempty"`
}

// QuoteRequest body para POST/PUT /api/quotes.
type QuoteRequest struct {
	ClientID   string        `json:"client_id" validate:"required"`
	Date       string        `json:"date,omitempty"`
	ValidUntil string        `json:"valid_until,omitempty"`
	Notes      string        `json:"notes,omitempty"`
	Lines      []LineRequest `json:"lines"`
}

// QuoteResponse presupuesto en respuestas.
type QuoteResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name,omitempty"`
	Number     string          `json:"number"`
	Date       string          `json:"date"`
	ValidUntil string          `json:"valid_until"`
	Status     string          `json:"status"`
	NetTotal   decimal.Decimal `json:"net_total"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
	Total      decimal.Decimal `json:"total"`
	Notes      string          `json:"notes,omitempty"`
	InvoiceID  string          `json:"invoice_id,omitempty"`
	Lines      []LineResponse  `json:"lines,omitempty"`
}

// DeliveryNoteRequest body para POST /api/delivery-notes.
type DeliveryNoteRequest struct {
	ClientID string        `json:"client_id" validate:"required"`
	Date     string        `json:"date,omitempty"`
	Notes    string        `json:"notes,omitempty"`
	Lines    []LineRequest `json:"lines"`
}

// DeliveryNoteResponse bon de sortie en respuestas.
type DeliveryNoteResponse struct {
	ID         string         `json:"id"`
	ClientID   string         `json:"client_id"`
	ClientName string         `json:"client_name,omitempty"`
	Number     string         `json:"number"`
	Date       string         `json:"date"`
	Notes      string         `json:"notes,omitempty"`
	Lines      []LineResponse `json:"lines,omitempty"`
}

// DocumentListRequest filtros de listados de documentos.
type DocumentListRequest struct {
	PageRequest
	Status   string `query:"status"`
	ClientID string `query:"client_id"`
}
