package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

const (
	topCategories     = 4
	uncategorizedName = "Sans catégorie"
)

// monthLabels etiquetas cortas en francés, enero primero.
var monthLabels = [12]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Juin",
	"Juil", "Août", "Sep", "Oct", "Nov", "Déc",
}

var hundred = decimal.NewFromInt(100)

// Input filas crudas de un período más las del período anterior (para crecimiento).
type Input struct {
	From, To         time.Time
	Invoices         []repository.InvoiceRow
	PreviousInvoices []repository.InvoiceRow
	Products         []repository.ProductRow
	Clients          []repository.ClientRow
}

// Aggregate reduce las filas a las series del tablero. Función pura.
func Aggregate(in Input) dto.DashboardResponse {
	return dto.DashboardResponse{
		From:                 in.From.Format(dateLayout),
		To:                   in.To.Format(dateLayout),
		MonthlyRevenue:       monthlyRevenue(in.Invoices),
		RecoveryRate:         recoveryRate(in.Invoices),
		CategoryDistribution: categoryDistribution(in.Products),
		MonthlyStatus:        monthlyStatus(in.Invoices),
		Summary:              summary(in),
	}
}

// monthlyRevenue suma las facturas pagadas en 12 cubetas fijas por mes calendario.
func monthlyRevenue(invoices []repository.InvoiceRow) []dto.MonthlyRevenueDTO {
	var sums [12]decimal.Decimal
	for _, inv := range invoices {
		if inv.Status == entity.InvoiceStatusPaid {
			m := inv.Date.Month() - 1
			sums[m] = sums[m].Add(inv.Total)
		}
	}
	out := make([]dto.MonthlyRevenueDTO, 12)
	for i := range out {
		out[i] = dto.MonthlyRevenueDTO{Month: monthLabels[i], Revenue: sums[i]}
	}
	return out
}

// recoveryRate reparte las facturas en pagadas / pendientes (draft+sent) / vencidas.
// Con facturas, los tres porcentajes suman exactamente 100: el residuo de redondeo
// va a pending, o al primer bucket no vacío si pending está vacío.
func recoveryRate(invoices []repository.InvoiceRow) dto.RecoveryRateDTO {
	total := len(invoices)
	if total == 0 {
		return dto.RecoveryRateDTO{Paid: decimal.Zero, Pending: decimal.Zero, Overdue: decimal.Zero}
	}
	var paid, overdue, pending int
	for _, inv := range invoices {
		switch inv.Status {
		case entity.InvoiceStatusPaid:
			paid++
		case entity.InvoiceStatusOverdue:
			overdue++
		default:
			pending++
		}
	}
	n := decimal.NewFromInt(int64(total))
	pct := func(c int) decimal.Decimal {
		return decimal.NewFromInt(int64(c)).Mul(hundred).Div(n).Round(2)
	}
	r := dto.RecoveryRateDTO{Paid: pct(paid), Pending: pct(pending), Overdue: pct(overdue)}
	residual := hundred.Sub(r.Paid).Sub(r.Pending).Sub(r.Overdue)
	switch {
	case residual.IsZero():
	case pending > 0:
		r.Pending = r.Pending.Add(residual)
	case overdue > 0:
		r.Overdue = r.Overdue.Add(residual)
	default:
		r.Paid = r.Paid.Add(residual)
	}
	return r
}

// categoryDistribution cuenta productos por categoría y devuelve el top 4.
// Empates: gana la categoría que apareció primero en el orden de lectura.
func categoryDistribution(products []repository.ProductRow) []dto.CategoryShareDTO {
	index := make(map[string]int)
	var shares []dto.CategoryShareDTO
	for _, p := range products {
		key, name := p.CategoryID, p.CategoryName
		if key == "" {
			name = uncategorizedName
		}
		i, ok := index[key]
		if !ok {
			i = len(shares)
			index[key] = i
			shares = append(shares, dto.CategoryShareDTO{Name: name})
		}
		shares[i].Value++
	}
	sort.SliceStable(shares, func(a, b int) bool { return shares[a].Value > shares[b].Value })
	if len(shares) > topCategories {
		shares = shares[:topCategories]
	}
	if shares == nil {
		shares = []dto.CategoryShareDTO{}
	}
	return shares
}

func monthlyStatus(invoices []repository.InvoiceRow) []dto.MonthlyStatusDTO {
	out := make([]dto.MonthlyStatusDTO, 12)
	for i := range out {
		out[i].Month = monthLabels[i]
	}
	for _, inv := range invoices {
		m := inv.Date.Month() - 1
		if inv.Status == entity.InvoiceStatusPaid {
			out[m].Paid++
		} else {
			out[m].Unpaid++
		}
	}
	return out
}

func summary(in Input) dto.DashboardSummaryDTO {
	revenue, unpaidAmount, unpaidCount := totals(in.Invoices)
	prevRevenue, _, _ := totals(in.PreviousInvoices)

	prevFrom, prevTo := PreviousPeriod(in.From, in.To)
	newClients := clientsCreatedBetween(in.Clients, in.From, in.To)
	prevClients := clientsCreatedBetween(in.Clients, prevFrom, prevTo)

	return dto.DashboardSummaryDTO{
		TotalRevenue:  revenue,
		ClientCount:   len(in.Clients),
		InvoiceCount:  len(in.Invoices),
		UnpaidAmount:  unpaidAmount,
		UnpaidCount:   unpaidCount,
		RevenueGrowth: growth(revenue, prevRevenue),
		InvoiceGrowth: growth(decimal.NewFromInt(int64(len(in.Invoices))), decimal.NewFromInt(int64(len(in.PreviousInvoices)))),
		ClientGrowth:  growth(decimal.NewFromInt(int64(newClients)), decimal.NewFromInt(int64(prevClients))),
	}
}

func totals(invoices []repository.InvoiceRow) (paid, unpaid decimal.Decimal, unpaidCount int) {
	paid, unpaid = decimal.Zero, decimal.Zero
	for _, inv := range invoices {
		if inv.Status == entity.InvoiceStatusPaid {
			paid = paid.Add(inv.Total)
		} else {
			unpaid = unpaid.Add(inv.Total)
			unpaidCount++
		}
	}
	return paid, unpaid, unpaidCount
}

// growth variación porcentual (2 decimales); 0 si el valor anterior es 0.
func growth(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Mul(hundred).Div(previous).Round(2)
}

func clientsCreatedBetween(clients []repository.ClientRow, from, to time.Time) int {
	end := to.AddDate(0, 0, 1)
	n := 0
	for _, c := range clients {
		if !c.CreatedAt.Before(from) && c.CreatedAt.Before(end) {
			n++
		}
	}
	return n
}

// PreviousPeriod devuelve el período de igual duración (en días) que termina el día antes de from.
func PreviousPeriod(from, to time.Time) (time.Time, time.Time) {
	days := int(to.Sub(from).Hours()/24) + 1
	prevTo := from.AddDate(0, 0, -1)
	return prevTo.AddDate(0, 0, -(days - 1)), prevTo
}
