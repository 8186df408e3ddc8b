package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-api/internal/application/billing"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

func sampleDocument(kind string) billing.DocumentPDF {
	lines := []entity.DocumentLine{
		{Description: "Prestation conseil", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(150), TaxRate: decimal.NewFromInt(19)},
		{Description: "Câble réseau", Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.RequireFromString("12.250"), TaxRate: decimal.NewFromInt(7)},
	}
	net, tax, total := entity.Totals(lines)
	return billing.DocumentPDF{
		Kind:           kind,
		Number:         "FAC-2026-0001",
		Date:           time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		SecondaryLabel: "Échéance",
		SecondaryDate:  time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Client:         &entity.Client{Name: "Société Alpha", TaxID: "1234567/A"},
		Company:        &entity.CompanyInfo{Name: "Beta SARL", Address: "Tunis"},
		Bank:           &entity.BankInfo{BankName: "BIAT", RIB: "08 000 0000000000000 00"},
		Lines:          lines,
		ShowPrices:     kind != billing.KindDeliveryNote,
		NetTotal:       net,
		TaxTotal:       tax,
		Total:          total,
		Notes:          "Merci pour votre confiance.",
	}
}

func TestGenerate_AllKinds(t *testing.T) {
	g := NewMarotoPDFGenerator("TND")
	for _, kind := range []string{billing.KindInvoice, billing.KindQuote, billing.KindDeliveryNote} {
		t.Run(kind, func(t *testing.T) {
			out, err := g.Generate(context.Background(), sampleDocument(kind))
			require.NoError(t, err)
			require.NotEmpty(t, out)
			assert.Equal(t, "%PDF", string(out[:4]))
		})
	}
}

func TestGenerate_WithoutSettings(t *testing.T) {
	doc := sampleDocument(billing.KindInvoice)
	doc.Company = nil
	doc.Bank = nil
	doc.Client = nil

	out, err := NewMarotoPDFGenerator("").Generate(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerate_UnknownKind(t *testing.T) {
	_, err := NewMarotoPDFGenerator("TND").Generate(context.Background(), billing.DocumentPDF{Kind: "recu"})
	assert.Error(t, err)
}

func TestFormatMoney_French(t *testing.T) {
	g := NewMarotoPDFGenerator("TND")
	assert.Equal(t, "1 234,500 TND", g.formatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0,000 TND", g.formatMoney(decimal.Zero))
}

func TestFormatQuantity(t *testing.T) {
	g := NewMarotoPDFGenerator("TND")
	assert.Equal(t, "3", g.formatQuantity(decimal.NewFromInt(3)))
	assert.Equal(t, "1,50", g.formatQuantity(decimal.RequireFromString("1.5")))
}
