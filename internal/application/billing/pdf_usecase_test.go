package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-api/internal/application/billing"
	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

func newPDFFixture(t *testing.T) (*fixture, *memSettings, *fakeGenerator, *billing.PDFUseCase) {
	t.Helper()
	f := newFixture()
	settings := newMemSettings()
	settings.company[owner] = &entity.CompanyInfo{UserID: owner, Name: "Beta SARL"}
	settings.bank[owner] = &entity.BankInfo{UserID: owner, BankName: "BIAT"}
	gen := &fakeGenerator{}
	uc := billing.NewPDFUseCase(f.tx.invoices, f.tx.quotes, f.tx.notes, f.clients, settings, gen)
	return f, settings, gen, uc
}

func TestInvoicePDF_IncludesCompanyBankAndTotals(t *testing.T) {
	f, _, gen, uc := newPDFFixture(t)
	inv, err := f.invoices.Create(f.ctx, owner, f.invoiceRequest())
	require.NoError(t, err)

	out, name, err := uc.InvoicePDF(f.ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	assert.Equal(t, "facture_"+inv.Number+".pdf", name)

	require.Len(t, gen.docs, 1)
	doc := gen.docs[0]
	assert.Equal(t, billing.KindInvoice, doc.Kind)
	assert.True(t, doc.ShowPrices)
	assert.Equal(t, "Société Alpha", doc.Client.Name)
	assert.Equal(t, "Beta SARL", doc.Company.Name)
	require.NotNil(t, doc.Bank)
	assert.True(t, doc.Total.Equal(inv.Total))
	assert.Len(t, doc.Lines, 3)
}

func TestQuoteAndDeliveryNotePDF(t *testing.T) {
	f, _, gen, uc := newPDFFixture(t)
	qt := f.createQuote(t)
	note, err := f.notes.Create(f.ctx, owner, dto.DeliveryNoteRequest{
		ClientID: "c1",
		Lines:    []dto.LineRequest{{ProductID: "p2", Quantity: dec("5")}},
	})
	require.NoError(t, err)

	_, name, err := uc.QuotePDF(f.ctx, owner, qt.ID)
	require.NoError(t, err)
	assert.Equal(t, "devis_DEV-2026-0001.pdf", name)

	_, name, err = uc.DeliveryNotePDF(f.ctx, owner, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "bon_de_sortie_"+note.Number+".pdf", name)

	require.Len(t, gen.docs, 2)
	assert.Equal(t, "Valable jusqu'au", gen.docs[0].SecondaryLabel)
	assert.Nil(t, gen.docs[0].Bank, "el banco solo va en facturas")
	assert.False(t, gen.docs[1].ShowPrices)
}

func TestPDF_NotFound(t *testing.T) {
	f, _, gen, uc := newPDFFixture(t)
	_, _, err := uc.InvoicePDF(f.ctx, owner, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = uc.QuotePDF(f.ctx, owner, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = uc.DeliveryNotePDF(f.ctx, owner, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, gen.docs)
}
