package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/pricing"
)

// View estado completo de la terminal para el cliente. La habilitación de "agregar" y los
// totales se recalculan en cada llamada.
func (t *Terminal) View() *dto.TerminalView {
	sel := t.selector.Snapshot()

	t.mu.Lock()
	lines := t.cart.Lines()
	hasReceipt := t.receipt != nil
	t.mu.Unlock()

	v := &dto.TerminalView{
		Families:        []dto.OptionDTO{},
		Products:        make([]dto.OptionDTO, 0, len(sel.Products)),
		Presentations:   make([]dto.OptionDTO, 0, len(sel.Presentations)),
		Loading:         sel.Loading(),
		QuantityBoxes:   sel.Boxes,
		QuantityUnits:   sel.Units,
		DiscountPercent: sel.DiscountPercent.String(),
		Lines:           make([]dto.CartLineDTO, 0, len(lines)),
		Totals:          totalsDTO(sumLines(lines)),
		Submitting:      t.guard.Submitting(),
		HasReceipt:      hasReceipt,
		Notices:         []string{},
	}
	if sel.Catalog != nil {
		for _, f := range sel.Catalog.Families {
			v.Families = append(v.Families, dto.OptionDTO{ID: string(f.ID), Name: f.Name})
		}
	}
	for _, p := range sel.Products {
		v.Products = append(v.Products, dto.OptionDTO{ID: string(p.ID), Name: p.Name})
	}
	for _, p := range sel.Presentations {
		v.Presentations = append(v.Presentations, dto.OptionDTO{ID: string(p.ID), Name: p.Name})
	}
	if sel.Family != nil {
		v.FamilyID = string(sel.Family.ID)
	}
	if sel.Product != nil {
		v.ProductID = string(sel.Product.ID)
	}
	if sel.Presentation != nil {
		v.PresentationID = string(sel.Presentation.ID)
	}
	if sel.Stock != nil {
		v.Stock = &dto.StockDTO{Boxes: sel.Stock.Boxes, Units: sel.Stock.Units}
	}
	if sel.Price.Available() {
		v.Price = &dto.PriceQuoteDTO{
			BasePrice:      money(sel.Price.BasePrice),
			TaxRatePercent: sel.Price.TaxRatePercent.String(),
			PriceWithTax:   money(sel.Price.PriceWithTax),
		}
		b, err := pricing.Calculate(pricing.LineInput{
			PriceWithTax:    sel.Price.PriceWithTax,
			Quantity:        sel.Boxes,
			DiscountPercent: sel.DiscountPercent,
			TaxRatePercent:  sel.Price.TaxRatePercent,
		})
		if err == nil {
			v.Preview = &dto.LineBreakdownDTO{
				Gross:         money(b.Gross),
				Discount:      money(b.Discount),
				SubtotalExTax: money(b.SubtotalExTax),
				Tax:           money(b.Tax),
				Total:         money(b.Net),
			}
		}
	}

	add := EvaluateAdd(sel)
	v.AddState = dto.AddStateDTO{Enabled: add.Enabled}
	if add.Err != nil {
		v.AddState.Reason = add.Err.Error()
	}

	for _, err := range []error{sel.CatalogErr, sel.PresentationsErr, sel.StockErr, sel.PriceErr} {
		if err != nil {
			v.Notices = append(v.Notices, err.Error())
		}
	}
	for _, l := range lines {
		v.Lines = append(v.Lines, LineDTO(l))
	}
	return v
}

// LineDTO convierte una línea del carrito.
func LineDTO(l entity.CartLine) dto.CartLineDTO {
	return dto.CartLineDTO{
		ID:               string(l.ID),
		FamilyName:       l.FamilyName,
		ProductID:        string(l.ProductID),
		ProductName:      l.ProductName,
		PresentationID:   string(l.PresentationID),
		PresentationName: l.PresentationName,
		QuantityBoxes:    l.QuantityBoxes,
		QuantityUnits:    l.QuantityUnits,
		DiscountPercent:  l.DiscountPercent.String(),
		UnitPriceWithTax: money(l.UnitPriceWithTax),
		Amounts: dto.LineBreakdownDTO{
			Gross:         money(l.GrossTotal),
			Discount:      money(l.DiscountAmount),
			SubtotalExTax: money(l.SubtotalExTax),
			Tax:           money(l.TaxAmount),
			Total:         money(l.TotalWithTax),
		},
	}
}

func totalsDTO(t entity.CartTotals) dto.CartTotalsDTO {
	return dto.CartTotalsDTO{
		Subtotal: money(t.Subtotal),
		Tax:      money(t.Tax),
		Discount: money(t.Discount),
		Total:    money(t.Total),
	}
}

func money(d decimal.Decimal) dto.Money {
	return dto.Money{Value: d.StringFixed(4), Display: pricing.FormatAmount(d)}
}
