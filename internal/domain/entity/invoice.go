package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura. El ciclo es draft → sent → paid | overdue, overdue → paid.
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

var invoiceTransitions = map[string][]string{
	InvoiceStatusDraft:   {InvoiceStatusSent},
	InvoiceStatusSent:    {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue: {InvoiceStatusPaid},
}

// IsValidInvoiceStatus informa si s es un estado conocido.
func IsValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// CanTransitionInvoice informa si el paso from → to respeta el ciclo de vida (solo hacia adelante).
func CanTransitionInvoice(from, to string) bool {
	for _, next := range invoiceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Invoice representa la cabecera de una factura (tabla factures).
type Invoice struct {
	ID         string
	UserID     string
	ClientID   string
	ClientName string // solo lectura
	QuoteID    string // presupuesto de origen, si lo hay
	Number     string
	Date       time.Time
	DueDate    time.Time
	Status     string
	NetTotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	Lines      []DocumentLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsPaid informa si la factura está cobrada.
func (i *Invoice) IsPaid() bool { return i.Status == InvoiceStatusPaid }
