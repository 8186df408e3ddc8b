// Package analytics contiene el caso de uso del tablero: lectura en paralelo de
// facturas, productos y clientes y su agregación en series para los gráficos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// DashboardUseCase genera el tablero de un usuario para un rango de fechas.
// Solo lectura; cualquier fallo de lectura aborta todo (sin resultados parciales).
type DashboardUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, now: time.Now}
}

// ParseRange interpreta from/to (YYYY-MM-DD). Vacíos: 1 de enero del año en curso hasta hoy.
func (uc *DashboardUseCase) ParseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := uc.now()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var err error
	if fromStr != "" {
		if from, err = time.Parse(dateLayout, fromStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
	}
	if toStr != "" {
		if to, err = time.Parse(dateLayout, toStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to anterior a from", domain.ErrInvalidInput)
	}
	return from, to, nil
}

// Get construye el tablero.
//
// Cuatro lecturas en paralelo:
//  1. facturas del rango
//  2. facturas del período anterior de igual duración (crecimiento)
//  3. productos con su categoría
//  4. clientes
func (uc *DashboardUseCase) Get(ctx context.Context, userID string, from, to time.Time) (*dto.DashboardResponse, error) {
	prevFrom, prevTo := PreviousPeriod(from, to)

	// el primer error cancela gctx y con él las lecturas restantes
	g, gctx := errgroup.WithContext(ctx)
	var (
		current, previous []repository.InvoiceRow
		products          []repository.ProductRow
		clients           []repository.ClientRow
	)
	g.Go(func() (err error) {
		current, err = uc.repo.InvoicesBetween(gctx, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		previous, err = uc.repo.InvoicesBetween(gctx, userID, prevFrom, prevTo)
		return err
	})
	g.Go(func() (err error) {
		products, err = uc.repo.Products(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		clients, err = uc.repo.Clients(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDashboardUnavailable, err)
	}

	out := Aggregate(Input{
		From:             from,
		To:               to,
		Invoices:         current,
		PreviousInvoices: previous,
		Products:         products,
		Clients:          clients,
	})
	return &out, nil
}
