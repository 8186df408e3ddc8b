package billing_test

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturation-api/internal/application/billing"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

// ── repositorios en memoria ───────────────────────────────────────────────────

type memClients struct{ rows map[string]*entity.Client }

func newMemClients(clients ...*entity.Client) *memClients {
	m := &memClients{rows: map[string]*entity.Client{}}
	for _, c := range clients {
		m.rows[c.ID] = c
	}
	return m
}

func (m *memClients) Create(_ context.Context, c *entity.Client) error {
	m.rows[c.ID] = c
	return nil
}

func (m *memClients) GetByID(_ context.Context, userID, id string) (*entity.Client, error) {
	c := m.rows[id]
	if c == nil || c.UserID != userID {
		return nil, nil
	}
	return c, nil
}

func (m *memClients) List(_ context.Context, userID string, _, _ int) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range m.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memClients) Update(_ context.Context, c *entity.Client) error {
	if _, ok := m.rows[c.ID]; !ok {
		return domain.ErrNotFound
	}
	m.rows[c.ID] = c
	return nil
}

func (m *memClients) Delete(_ context.Context, _, id string) error {
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memProducts struct{ rows map[string]*entity.Product }

func newMemProducts(products ...*entity.Product) *memProducts {
	m := &memProducts{rows: map[string]*entity.Product{}}
	for _, p := range products {
		m.rows[p.ID] = p
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.rows[p.ID] = p
	return nil
}

func (m *memProducts) GetByID(_ context.Context, userID, id string) (*entity.Product, error) {
	p := m.rows[id]
	if p == nil || p.UserID != userID {
		return nil, nil
	}
	return p, nil
}

func (m *memProducts) List(_ context.Context, _ string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.rows {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	m.rows[p.ID] = p
	return nil
}

func (m *memProducts) Delete(_ context.Context, _, id string) error {
	delete(m.rows, id)
	return nil
}

type memCategories struct{ rows map[string]*entity.Category }

func newMemCategories(cats ...*entity.Category) *memCategories {
	m := &memCategories{rows: map[string]*entity.Category{}}
	for _, c := range cats {
		m.rows[c.ID] = c
	}
	return m
}

func (m *memCategories) Create(_ context.Context, c *entity.Category) error {
	for _, other := range m.rows {
		if other.UserID == c.UserID && other.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	m.rows[c.ID] = c
	return nil
}

func (m *memCategories) GetByID(_ context.Context, userID, id string) (*entity.Category, error) {
	c := m.rows[id]
	if c == nil || c.UserID != userID {
		return nil, nil
	}
	return c, nil
}

func (m *memCategories) List(_ context.Context, _ string) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCategories) Update(_ context.Context, c *entity.Category) error {
	m.rows[c.ID] = c
	return nil
}

func (m *memCategories) Delete(_ context.Context, _, id string) error {
	delete(m.rows, id)
	return nil
}

// memInvoices numera por año igual que el repositorio real.
type memInvoices struct {
	rows map[string]*entity.Invoice
	seq  map[int]int
	// beforeStatus simula otra petición que escribe entre la lectura y el UPDATE
	beforeStatus func()
}

func newMemInvoices() *memInvoices {
	return &memInvoices{rows: map[string]*entity.Invoice{}, seq: map[int]int{}}
}

func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	cp := *inv
	m.rows[inv.ID] = &cp
	return nil
}

func (m *memInvoices) GetByID(_ context.Context, userID, id string) (*entity.Invoice, error) {
	inv := m.rows[id]
	if inv == nil || inv.UserID != userID {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvoices) List(_ context.Context, userID string, f repository.DocumentFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range m.rows {
		if inv.UserID == userID && (f.Status == "" || inv.Status == f.Status) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memInvoices) Update(_ context.Context, inv *entity.Invoice) error {
	cp := *inv
	m.rows[inv.ID] = &cp
	return nil
}

func (m *memInvoices) UpdateStatus(_ context.Context, _, id, from, to string) error {
	if m.beforeStatus != nil {
		m.beforeStatus()
	}
	inv := m.rows[id]
	if inv == nil || inv.Status != from {
		return domain.ErrConflict
	}
	inv.Status = to
	return nil
}

func (m *memInvoices) Delete(_ context.Context, _, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memInvoices) NextNumber(_ context.Context, _ string, year int) (string, error) {
	m.seq[year]++
	return fmt.Sprintf("FAC-%d-%04d", year, m.seq[year]), nil
}

type memQuotes struct {
	rows map[string]*entity.Quote
	seq  int
}

func newMemQuotes() *memQuotes { return &memQuotes{rows: map[string]*entity.Quote{}} }

func (m *memQuotes) Create(_ context.Context, qt *entity.Quote) error {
	cp := *qt
	m.rows[qt.ID] = &cp
	return nil
}

func (m *memQuotes) GetByID(_ context.Context, userID, id string) (*entity.Quote, error) {
	qt := m.rows[id]
	if qt == nil || qt.UserID != userID {
		return nil, nil
	}
	cp := *qt
	return &cp, nil
}

func (m *memQuotes) List(_ context.Context, _ string, _ repository.DocumentFilter) ([]*entity.Quote, error) {
	var out []*entity.Quote
	for _, qt := range m.rows {
		out = append(out, qt)
	}
	return out, nil
}

func (m *memQuotes) Update(_ context.Context, qt *entity.Quote) error {
	cp := *qt
	m.rows[qt.ID] = &cp
	return nil
}

func (m *memQuotes) UpdateStatus(_ context.Context, _, id, from, to string) error {
	qt := m.rows[id]
	if qt == nil || qt.Status != from {
		return domain.ErrConflict
	}
	qt.Status = to
	return nil
}

func (m *memQuotes) MarkConverted(_ context.Context, _, id, invoiceID string) error {
	qt := m.rows[id]
	if qt == nil || qt.Status == entity.QuoteStatusConverted {
		return domain.ErrConflict
	}
	qt.Status = entity.QuoteStatusConverted
	qt.InvoiceID = invoiceID
	return nil
}

func (m *memQuotes) Delete(_ context.Context, _, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memQuotes) NextNumber(_ context.Context, _ string, year int) (string, error) {
	m.seq++
	return fmt.Sprintf("DEV-%d-%04d", year, m.seq), nil
}

type memNotes struct {
	rows map[string]*entity.DeliveryNote
	seq  int
}

func newMemNotes() *memNotes { return &memNotes{rows: map[string]*entity.DeliveryNote{}} }

func (m *memNotes) Create(_ context.Context, n *entity.DeliveryNote) error {
	cp := *n
	m.rows[n.ID] = &cp
	return nil
}

func (m *memNotes) GetByID(_ context.Context, userID, id string) (*entity.DeliveryNote, error) {
	n := m.rows[id]
	if n == nil || n.UserID != userID {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (m *memNotes) List(_ context.Context, _ string, _ repository.DocumentFilter) ([]*entity.DeliveryNote, error) {
	var out []*entity.DeliveryNote
	for _, n := range m.rows {
		out = append(out, n)
	}
	return out, nil
}

func (m *memNotes) Delete(_ context.Context, _, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memNotes) NextNumber(_ context.Context, _ string, year int) (string, error) {
	m.seq++
	return fmt.Sprintf("BS-%d-%04d", year, m.seq), nil
}

type memSettings struct {
	company map[string]*entity.CompanyInfo
	bank    map[string]*entity.BankInfo
}

func newMemSettings() *memSettings {
	return &memSettings{company: map[string]*entity.CompanyInfo{}, bank: map[string]*entity.BankInfo{}}
}

func (m *memSettings) GetCompany(_ context.Context, userID string) (*entity.CompanyInfo, error) {
	return m.company[userID], nil
}

func (m *memSettings) UpsertCompany(_ context.Context, info *entity.CompanyInfo) error {
	m.company[info.UserID] = info
	return nil
}

func (m *memSettings) GetBank(_ context.Context, userID string) (*entity.BankInfo, error) {
	return m.bank[userID], nil
}

func (m *memSettings) UpsertBank(_ context.Context, info *entity.BankInfo) error {
	m.bank[info.UserID] = info
	return nil
}

// fakeTx ejecuta fn con los mismos repos en memoria; cuenta las transacciones abiertas.
type fakeTx struct {
	invoices *memInvoices
	quotes   *memQuotes
	notes    *memNotes
	runs     int
}

func (f *fakeTx) RunDocuments(_ context.Context, fn func(
	repository.InvoiceRepository, repository.QuoteRepository, repository.DeliveryNoteRepository,
) error) error {
	f.runs++
	return fn(f.invoices, f.quotes, f.notes)
}

var _ billing.DocumentTxRunner = (*fakeTx)(nil)

type fakeGenerator struct {
	docs []billing.DocumentPDF
}

func (g *fakeGenerator) Generate(_ context.Context, doc billing.DocumentPDF) ([]byte, error) {
	g.docs = append(g.docs, doc)
	return []byte("%PDF-fake"), nil
}
