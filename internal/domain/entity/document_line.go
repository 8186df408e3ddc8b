package entity

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DocumentLine línea de factura, presupuesto o bon de sortie.
type DocumentLine struct {
	ID          string
	DocumentID  string
	ProductID   string // opcional: líneas libres sin producto
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje
}

// Net devuelve cantidad × precio unitario.
func (l DocumentLine) Net() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Tax devuelve el impuesto de la línea.
func (l DocumentLine) Tax() decimal.Decimal {
	return l.Net().Mul(l.TaxRate).Div(hundred)
}

// Totals suma neto, impuestos y total de un conjunto de líneas, redondeados a 3 decimales (millimes).
func Totals(lines []DocumentLine) (net, tax, total decimal.Decimal) {
	net, tax = decimal.Zero, decimal.Zero
	for _, l := range lines {
		net = net.Add(l.Net())
		tax = tax.Add(l.Tax())
	}
	net = net.Round(3)
	tax = tax.Round(3)
	return net, tax, net.Add(tax)
}
