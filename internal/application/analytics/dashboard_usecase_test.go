package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

type fakeDashboardRepo struct {
	mu          sync.Mutex
	ranges      [][2]time.Time
	invoices    []repository.InvoiceRow
	invoicesErr error
	productsErr error
	// blockClients hace que Clients espere a que se cancele el contexto
	blockClients  bool
	clientsCancel chan error
}

func (f *fakeDashboardRepo) InvoicesBetween(_ context.Context, _ string, from, to time.Time) ([]repository.InvoiceRow, error) {
	f.mu.Lock()
	f.ranges = append(f.ranges, [2]time.Time{from, to})
	f.mu.Unlock()
	if f.invoicesErr != nil {
		return nil, f.invoicesErr
	}
	var out []repository.InvoiceRow
	for _, r := range f.invoices {
		if !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDashboardRepo) Products(context.Context, string) ([]repository.ProductRow, error) {
	return []repository.ProductRow{{ID: "p1", CategoryID: "c", CategoryName: "Services"}}, f.productsErr
}

func (f *fakeDashboardRepo) Clients(ctx context.Context, _ string) ([]repository.ClientRow, error) {
	if !f.blockClients {
		return nil, nil
	}
	select {
	case <-ctx.Done():
		f.clientsCancel <- ctx.Err()
		return nil, ctx.Err()
	case <-time.After(3 * time.Second):
		f.clientsCancel <- nil
		return nil, nil
	}
}

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestDashboardUseCase_Get_ConsultaPeriodoActualYAnterior(t *testing.T) {
	repo := &fakeDashboardRepo{invoices: []repository.InvoiceRow{
		{ID: "1", Date: date(2026, 2, 3), Status: "paid", Total: decimal.NewFromInt(80)},
		{ID: "2", Date: date(2026, 1, 3), Status: "paid", Total: decimal.NewFromInt(40)},
	}}
	uc := NewDashboardUseCase(repo)

	out, err := uc.Get(context.Background(), "u1", date(2026, 2, 1), date(2026, 2, 28))
	require.NoError(t, err)
	require.Len(t, repo.ranges, 2)
	assert.Contains(t, repo.ranges, [2]time.Time{date(2026, 1, 4), date(2026, 1, 31)})
	assert.Equal(t, "2026-02-01", out.From)
	assert.True(t, out.Summary.TotalRevenue.Equal(decimal.NewFromInt(80)))
	assert.Len(t, out.CategoryDistribution, 1)
}

func TestDashboardUseCase_Get_FalloDeLecturaAbortaTodo(t *testing.T) {
	repo := &fakeDashboardRepo{productsErr: errors.New("connection reset")}
	uc := NewDashboardUseCase(repo)

	out, err := uc.Get(context.Background(), "u1", date(2026, 1, 1), date(2026, 1, 31))
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrDashboardUnavailable)
}

func TestDashboardUseCase_Get_FalloCancelaLecturasPendientes(t *testing.T) {
	repo := &fakeDashboardRepo{
		invoicesErr:   errors.New("connection reset"),
		blockClients:  true,
		clientsCancel: make(chan error, 1),
	}
	uc := NewDashboardUseCase(repo)

	start := time.Now()
	out, err := uc.Get(context.Background(), "u1", date(2026, 1, 1), date(2026, 1, 31))

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrDashboardUnavailable)
	assert.Less(t, time.Since(start), time.Second, "la lectura bloqueada debe cancelarse")
	assert.ErrorIs(t, <-repo.clientsCancel, context.Canceled)
}

func TestDashboardUseCase_ParseRange(t *testing.T) {
	uc := NewDashboardUseCase(&fakeDashboardRepo{})
	uc.now = func() time.Time { return time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC) }

	from, to, err := uc.ParseRange("", "")
	require.NoError(t, err)
	assert.Equal(t, date(2026, 1, 1), from)
	assert.Equal(t, date(2026, 10, 18), to)

	from, to, err = uc.ParseRange("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 1), from)
	assert.Equal(t, date(2025, 3, 31), to)

	_, _, err = uc.ParseRange("01/03/2025", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = uc.ParseRange("2025-04-01", "2025-03-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
