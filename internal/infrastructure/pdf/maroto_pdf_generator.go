// Package pdf genera la representación impresa de un presupuesto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + CUIT │  PRESUPUESTO N° + Fechas      │
//	│  EMISOR: Condición IVA / IIBB / Dirección / contacto         │
//	│  CLIENTE: Razón social + CUIT + condición IVA                │
//	│  TABLA: # | Cant | Descripción | P.Unit | Bonif | IVA | Total │
//	│  TOTALES: Subtotal / IVA / Percepción IIBB / TOTAL           │
//	│  FOOTER: QR con los datos del presupuesto + leyenda          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/Presupuestos-api/internal/application/quoting"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/pkg/afip"
)

var _ quoting.QuotePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa quoting.QuotePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateQuotePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateQuotePDF(_ context.Context, doc quoting.QuoteDocument) ([]byte, error) {
	if doc.Company == nil || doc.Customer == nil {
		return nil, fmt.Errorf("pdf: faltan empresa o cliente")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Presupuesto "+doc.Quote.Number, true).
		WithAuthor(doc.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc.Quote, doc.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(doc.Company, doc.Seller))
	m.AddRows(customerRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(doc.Quote.Lines, doc.ProductNames)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.Quote.Totals))

	if doc.Quote.Notes != "" {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("Observaciones: "+doc.Quote.Notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc.Quote, doc.Company))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + CUIT (izq) y número, estado y fechas (der).
func headerRow(q entity.QuoteView, company *entity.Company) core.Row {
	validity := "Sin vencimiento"
	if q.ExpirationDate != nil {
		validity = "Válido hasta: " + q.ExpirationDate.In(entity.BusinessLocation).Format("02/01/2006")
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CUIT: "+afip.FormatCUIT(company.CUIT), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PRESUPUESTO ("+q.State.String()+")", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+q.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+q.IssueDate.In(entity.BusinessLocation).Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New(validity, props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

// issuerRow: datos fiscales de la empresa y vendedor.
func issuerRow(company *entity.Company, seller *entity.Vendor) core.Row {
	fiscal := fmt.Sprintf("%s   |   IIBB: %s   |   Punto de venta: %05d",
		nonEmpty(afip.IVAConditionNames[company.IVACondition], "-"),
		nonEmpty(company.IIBBNumber, "-"),
		company.PointOfSale,
	)
	contact := fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
		nonEmpty(company.Address, "-"), nonEmpty(company.Phone, "-"), nonEmpty(company.Email, "-"))
	if seller != nil {
		contact += "   |   Vendedor: " + seller.Name
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fiscal, props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New(contact, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// customerRow: datos del cliente.
func customerRow(customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(customer.BusinessName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("CUIT: %s   |   %s   |   Email: %s",
				customer.FormattedCUIT(),
				nonEmpty(afip.IVAConditionNames[customer.IVACondition], "-"),
				nonEmpty(customer.Email, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Cant.", 1, align.Center),
		h("Descripción", 4, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Bonif.", 1, align.Center),
		h("IVA", 1, align.Center),
		h("Total", 2, align.Right),
	)
}

// tableLineRows: una fila por línea del presupuesto.
func tableLineRows(lines []entity.QuoteLineView, names map[string]string) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		name := names[l.ProductID]
		if name == "" {
			name = l.ProductID
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.LineNumber), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(formatQuantity(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$ "+formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatPercent(l.DiscountPercent), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(formatPercent(l.TaxPercent), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New("$ "+formatMoney(l.PersistedTotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha. La percepción solo aparece si existe.
func totalsRow(t entity.Totals) core.Row {
	label := func(s string, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2}
		if bold {
			p.Style, p.Size, p.Color = fontstyle.Bold, 10, colorPrimary
		}
		return text.New(s, p)
	}
	labels := col.New(3).Add(label("Subtotal:", false), label("IVA:", false))
	values := col.New(3).Add(label("$ "+formatMoney(t.Subtotal), false), label("$ "+formatMoney(t.TotalTax), false))
	height := 18.0
	if !t.Withholding.IsZero() {
		labels.Add(label("Percepción IIBB ARBA:", false))
		values.Add(label("$ "+formatMoney(t.Withholding), false))
		height = 24
	}
	labels.Add(label("TOTAL:", true))
	values.Add(label("$ "+formatMoney(t.Total), true))
	return row.New(height).Add(col.New(6), labels, values)
}

// footerRow: QR con emisor, número y total para verificar el documento, más la leyenda.
func footerRow(q entity.QuoteView, company *entity.Company) core.Row {
	payload := strings.Join([]string{"PRESUPUESTO", company.CUIT, q.Number, q.Totals.Total.StringFixed(2)}, "|")
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(payload, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Documento no válido como factura.", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6, Left: 3, Color: colorPrimary,
			}),
			text.New("Los precios pueden modificarse una vez vencido el plazo de validez del presupuesto.", props.Text{
				Size: 8, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con separador de miles "." y decimales ",". Ej: 1234567.5 → "1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// formatQuantity muestra la cantidad sin ceros decimales sobrantes.
func formatQuantity(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

func formatPercent(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1) + "%"
}
