// Package pdf genera la representación imprimible de facturas, presupuestos
// y bons de sortie.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + MF         │  Tipo + N° + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                             │
//	│  CLIENTE: Nombre + MF + contacto                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Qté | Désignation | P.U. HT | TVA | Total HT         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total HT / TVA / Total TTC (solo con importes)     │
//	│  NOTAS + DATOS BANCARIOS (solo facturas)                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/facturation-api/internal/application/billing"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var titles = map[string]string{
	billing.KindInvoice:      "FACTURE",
	billing.KindQuote:        "DEVIS",
	billing.KindDeliveryNote: "BON DE SORTIE",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ billing.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer  *message.Printer
	currency string
}

// NewMarotoPDFGenerator construye el generador. Los importes se imprimen en formato francés.
func NewMarotoPDFGenerator(currency string) *MarotoPDFGenerator {
	if currency == "" {
		currency = "TND"
	}
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.French), currency: currency}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(_ context.Context, doc billing.DocumentPDF) ([]byte, error) {
	title, ok := titles[doc.Kind]
	if !ok {
		return nil, fmt.Errorf("pdf: tipo de documento desconocido %q", doc.Kind)
	}
	company := doc.Company
	if company == nil {
		company = &entity.CompanyInfo{}
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title+" "+doc.Number, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(title, doc, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emitterRow(company))
	m.AddRows(clientRow(doc.Client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(doc.ShowPrices))
	m.AddRows(g.tableRows(doc)...)

	if doc.ShowPrices {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(g.totalsRow(doc))
	}
	if doc.Notes != "" {
		m.AddRows(notesRow(doc.Notes))
	}
	if doc.Kind == billing.KindInvoice && doc.Bank != nil {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(bankRow(doc.Bank))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + matricule fiscal (izq) y tipo, número y fechas (der).
func (g *MarotoPDFGenerator) headerRow(title string, doc billing.DocumentPDF, company *entity.CompanyInfo) core.Row {
	right := []core.Component{
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right,
			Color: colorPrimary, Top: 1,
		}),
		text.New(doc.Number, props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
		}),
		text.New("Date : "+doc.Date.Format("02/01/2006"), props.Text{
			Size: 8, Align: align.Right, Top: 13, Color: colorGray,
		}),
	}
	if doc.SecondaryLabel != "" && !doc.SecondaryDate.IsZero() {
		right = append(right, text.New(doc.SecondaryLabel+" : "+doc.SecondaryDate.Format("02/01/2006"), props.Text{
			Size: 8, Align: align.Right, Top: 17, Color: colorGray,
		}))
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(nonEmpty(company.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("MF : "+nonEmpty(company.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(right...),
	)
}

func emitterRow(company *entity.CompanyInfo) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ÉMETTEUR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Adresse : %s   |   Tél : %s   |   Email : %s",
				nonEmpty(company.Address, "—"),
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func clientRow(client *entity.Client) core.Row {
	if client == nil {
		client = &entity.Client{}
	}
	return row.New(18).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(client.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("MF : %s   |   Email : %s   |   Tél : %s",
				nonEmpty(client.TaxID, "—"),
				nonEmpty(client.Email, "—"),
				nonEmpty(client.Phone, "—"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(client.Address, props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo de color. Sin importes solo hay cantidad y designación.
func tableHeaderRow(showPrices bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	var r core.Row
	if showPrices {
		r = row.New(8).Add(
			h("Qté", 1, align.Center),
			h("Désignation", 5, align.Left),
			h("P.U. HT", 2, align.Right),
			h("TVA", 1, align.Center),
			h("Total HT", 3, align.Right),
		)
	} else {
		r = row.New(8).Add(
			h("Qté", 2, align.Center),
			h("Désignation", 10, align.Left),
		)
	}
	return r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por línea de documento.
func (g *MarotoPDFGenerator) tableRows(doc billing.DocumentPDF) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	rows := make([]core.Row, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		qty := g.formatQuantity(l.Quantity)
		if !doc.ShowPrices {
			rows = append(rows, row.New(7).Add(
				cell(qty, 2, align.Center),
				cell(l.Description, 10, align.Left),
			))
			continue
		}
		rows = append(rows, row.New(7).Add(
			cell(qty, 1, align.Center),
			cell(l.Description, 5, align.Left),
			cell(g.formatMoney(l.UnitPrice), 2, align.Right),
			cell(l.TaxRate.StringFixed(0)+"%", 1, align.Center),
			cell(g.formatMoney(l.Net()), 3, align.Right),
		))
	}
	return rows
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoPDFGenerator) totalsRow(doc billing.DocumentPDF) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	return row.New(20).Add(
		col.New(4),
		col.New(4).Add(
			label("Total HT :", 2),
			label("TVA :", 7),
			grand("TOTAL TTC :", 13),
		),
		col.New(4).Add(
			value(g.formatMoney(doc.NetTotal), 2),
			value(g.formatMoney(doc.TaxTotal), 7),
			grand(g.formatMoney(doc.Total), 13),
		),
	)
}

func notesRow(notes string) core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("Notes", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		text.New(notes, props.Text{Size: 8, Top: 7, Color: colorGray}),
	))
}

func bankRow(bank *entity.BankInfo) core.Row {
	return row.New(16).Add(col.New(12).Add(
		text.New("COORDONNÉES BANCAIRES", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(fmt.Sprintf("Banque : %s   |   Titulaire : %s",
			nonEmpty(bank.BankName, "—"), nonEmpty(bank.AccountName, "—"),
		), props.Text{Size: 8, Top: 6, Color: colorGray}),
		text.New(fmt.Sprintf("RIB : %s   |   IBAN : %s   |   SWIFT : %s",
			nonEmpty(bank.RIB, "—"), nonEmpty(bank.IBAN, "—"), nonEmpty(bank.SWIFT, "—"),
		), props.Text{Size: 8, Top: 10, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// Helvetica (cp1252) no tiene el espacio fino que usa el agrupamiento francés.
var spaceReplacer = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

// formatMoney imprime 1234.5 como "1 234,500 TND".
func (g *MarotoPDFGenerator) formatMoney(d decimal.Decimal) string {
	s := g.printer.Sprintf("%.3f", d.Round(3).InexactFloat64())
	return spaceReplacer.Replace(s) + " " + g.currency
}

// formatQuantity omite los decimales de cantidades enteras.
func (g *MarotoPDFGenerator) formatQuantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return spaceReplacer.Replace(g.printer.Sprintf("%d", d.IntPart()))
	}
	return spaceReplacer.Replace(g.printer.Sprintf("%.2f", d.InexactFloat64()))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
