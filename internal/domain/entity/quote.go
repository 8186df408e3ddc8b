package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un presupuesto (devis).
const (
	QuoteStatusDraft     = "draft"
	QuoteStatusSent      = "sent"
	QuoteStatusAccepted  = "accepted"
	QuoteStatusRejected  = "rejected"
	QuoteStatusConverted = "converted"
)

// IsValidQuoteStatus informa si s es un estado editable manualmente (converted solo lo pone la conversión).
func IsValidQuoteStatus(s string) bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// Quote presupuesto convertible en factura.
type Quote struct {
	ID         string
	UserID     string
	ClientID   string
	ClientName string
	Number     string
	Date       time.Time
	ValidUntil time.Time
	Status     string
	NetTotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	InvoiceID  string // factura generada al convertir
	Lines      []DocumentLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
