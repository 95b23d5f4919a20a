package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// Cart líneas pendientes de la venta, en orden de inserción.
// No valida: quien agrega ya pasó el control de stock y el cálculo de precio.
// No es seguro para uso concurrente; la Terminal lo protege.
type Cart struct {
	lines []entity.CartLine
}

// NewCart crea un carrito vacío.
func NewCart() *Cart {
	return &Cart{}
}

// AddLine agrega la línea al final.
func (c *Cart) AddLine(l entity.CartLine) {
	c.lines = append(c.lines, l)
}

// RemoveLine quita la primera línea con ese id. Devuelve false si no existe.
func (c *Cart) RemoveLine(id entity.LineID) bool {
	for i, l := range c.lines {
		if l.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Lines copia de las líneas.
func (c *Cart) Lines() []entity.CartLine {
	out := make([]entity.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len cantidad de líneas.
func (c *Cart) Len() int { return len(c.lines) }

// Clear vacía el carrito.
func (c *Cart) Clear() { c.lines = nil }

// Totals suma las líneas en cada llamada; no hay acumulados guardados.
func (c *Cart) Totals() entity.CartTotals {
	return sumLines(c.lines)
}

// ToSubmission arma la venta para el backend sin modificar el carrito.
func (c *Cart) ToSubmission(description string) entity.SaleSubmission {
	sub := entity.SaleSubmission{
		Description: description,
		Lines:       make([]entity.SaleSubmissionLine, 0, len(c.lines)),
	}
	for _, l := range c.lines {
		sub.Lines = append(sub.Lines, entity.SaleSubmissionLine{
			PresentationID: l.PresentationID,
			ProductID:      l.ProductID,
			QuantityBoxes:  l.QuantityBoxes,
			QuantityUnits:  l.QuantityUnits,
			DiscountAmount: l.DiscountAmount,
		})
	}
	return sub
}

func sumLines(lines []entity.CartLine) entity.CartTotals {
	t := entity.CartTotals{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Discount: decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.SubtotalExTax)
		t.Tax = t.Tax.Add(l.TaxAmount)
		t.Discount = t.Discount.Add(l.DiscountAmount)
		t.Total = t.Total.Add(l.TotalWithTax)
	}
	return t
}
