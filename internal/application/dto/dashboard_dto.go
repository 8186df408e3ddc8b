package dto

import "github.com/shopspring/decimal"

// DashboardResponse respuesta de GET /api/dashboard.
type DashboardResponse struct {
	From                 string              `json:"from"`
	To                   string              `json:"to"`
	MonthlyRevenue       []MonthlyRevenueDTO `json:"monthly_revenue"`
	RecoveryRate         RecoveryRateDTO     `json:"recovery_rate"`
	CategoryDistribution []CategoryShareDTO  `json:"category_distribution"`
	MonthlyStatus        []MonthlyStatusDTO  `json:"monthly_status"`
	Summary              DashboardSummaryDTO `json:"summary"`
}

// MonthlyRevenueDTO ingresos cobrados de un mes (etiqueta corta en francés).
type MonthlyRevenueDTO struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RecoveryRateDTO porcentajes de cobro sobre el total de facturas del rango.
type RecoveryRateDTO struct {
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
	Overdue decimal.Decimal `json:"overdue"`
}

// CategoryShareDTO número de productos de una categoría.
type CategoryShareDTO struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// MonthlyStatusDTO facturas pagadas vs no pagadas de un mes.
type MonthlyStatusDTO struct {
	Month  string `json:"month"`
	Paid   int    `json:"paid"`
	Unpaid int    `json:"unpaid"`
}

// DashboardSummaryDTO KPIs del período con crecimiento respecto al período anterior.
type DashboardSummaryDTO struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	ClientCount   int             `json:"client_count"`
	InvoiceCount  int             `json:"invoice_count"`
	UnpaidAmount  decimal.Decimal `json:"unpaid_amount"`
	UnpaidCount   int             `json:"unpaid_count"`
	RevenueGrowth decimal.Decimal `json:"revenue_growth"`
	InvoiceGrowth decimal.Decimal `json:"invoice_growth"`
	ClientGrowth  decimal.Decimal `json:"client_growth"`
}
