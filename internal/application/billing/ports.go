package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

// DocumentTxRunner ejecuta una función dentro de una transacción con los repos de documentos.
// Cabecera + líneas + consecutivo se escriben en la misma tx; la conversión de presupuestos también.
type DocumentTxRunner interface {
	RunDocuments(ctx context.Context, fn func(
		invoices repository.InvoiceRepository,
		quotes repository.QuoteRepository,
		notes repository.DeliveryNoteRepository,
	) error) error
}

// Tipos de documento imprimibles.
const (
	KindInvoice      = "facture"
	KindQuote        = "devis"
	KindDeliveryNote = "bon_de_sortie"
)

// DocumentPDF datos ya resueltos que necesita el generador de PDF.
// Company y Bank pueden ser nil si el usuario aún no configuró sus datos.
type DocumentPDF struct {
	Kind           string
	Number         string
	Date           time.Time
	SecondaryLabel string // "Échéance" o "Valable jusqu'au"; vacío para bons de sortie
	SecondaryDate  time.Time
	Status         string
	Client         *entity.Client
	Company        *entity.CompanyInfo
	Bank           *entity.BankInfo
	Lines          []entity.DocumentLine
	ShowPrices     bool
	NetTotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	Total          decimal.Decimal
	Notes          string
}

// PDFGenerator genera los bytes del PDF de un documento.
type PDFGenerator interface {
	Generate(ctx context.Context, doc DocumentPDF) ([]byte, error)
}
