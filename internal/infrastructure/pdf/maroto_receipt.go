// Package pdf genera el comprobante de venta en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Comprobante de venta  │  Fecha + vendedor          │
//	│  DESCRIPCIÓN de la venta                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cajas | Producto | P.Unit | Desc. | IVA | Total     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuentos / IVA / TOTAL               │
//	│  FOOTER: QR con la referencia del envío                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

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

	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/pricing"
)

var _ ports.ReceiptRenderer = (*MarotoReceiptRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReceiptRenderer implementa ports.ReceiptRenderer con Maroto v2.
type MarotoReceiptRenderer struct {
	businessName string
}

// NewMarotoReceiptRenderer construye el generador. businessName encabeza el comprobante.
func NewMarotoReceiptRenderer(businessName string) *MarotoReceiptRenderer {
	return &MarotoReceiptRenderer{businessName: businessName}
}

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptRenderer) Render(r *entity.Receipt) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: comprobante nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r))
	if r.Description != "" {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Descripción: "+r.Description, props.Text{Size: 9, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(r.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r.Totals))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReceiptRenderer) headerRow(r *entity.Receipt) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+r.SubmittedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Vendedor: "+r.Seller, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Cajas", 1, align.Center),
		h("Producto", 4, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("IVA", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows una fila por línea; unidades sueltas se anotan junto a las cajas.
func tableDetailRows(lines []entity.CartLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		qty := fmt.Sprintf("%d", l.QuantityBoxes)
		if l.QuantityUnits > 0 {
			qty = fmt.Sprintf("%d + %du", l.QuantityBoxes, l.QuantityUnits)
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1}))
		}
		rows = append(rows, row.New(7).Add(
			cell(qty, 1, align.Center),
			cell(l.ProductName+" - "+l.PresentationName, 4, align.Left),
			cell(pricing.FormatAmount(l.UnitPriceWithTax), 2, align.Right),
			cell(pricing.FormatAmount(l.DiscountAmount), 2, align.Right),
			cell(pricing.FormatAmount(l.TaxAmount), 1, align.Right),
			cell(pricing.FormatAmount(l.TotalWithTax), 2, align.Right),
		))
	}
	return rows
}

func totalsRow(t entity.CartTotals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			label("Descuentos:"),
			label("IVA:"),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2,
			}),
		),
		col.New(3).Add(
			value(pricing.FormatAmount(t.Subtotal)),
			value(pricing.FormatAmount(t.Discount)),
			value(pricing.FormatAmount(t.Tax)),
			text.New(pricing.FormatAmount(t.Total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
			}),
		),
	)
}

// footerRow QR con la referencia de idempotencia, la misma que recibió el backend.
func footerRow(r *entity.Receipt) core.Row {
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(r.IdempotencyKey, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Referencia del envío:", props.Text{Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3}),
			text.New(r.IdempotencyKey, props.Text{Size: 7, Top: 10, Left: 3, Color: colorGray}),
			text.New("Este comprobante no es una factura electrónica.", props.Text{
				Size: 7, Top: 20, Left: 3, Color: colorGray,
			}),
		),
	)
}
