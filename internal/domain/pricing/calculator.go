package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/domain"
)

// Precisión interna de los montos. La presentación redondea aparte a unidades enteras.
const internalPlaces = 4

var hundred = decimal.NewFromInt(100)

// LineInput datos de una línea antes del cálculo.
type LineInput struct {
	PriceWithTax    decimal.Decimal // precio unitario con IVA incluido
	Quantity        int             // cajas
	DiscountPercent decimal.Decimal // 0..100
	TaxRatePercent  decimal.Decimal // >= 0, en porcentaje
}

// LineBreakdown desglose de una línea. SubtotalExTax + Tax == Net.
type LineBreakdown struct {
	Gross         decimal.Decimal
	Discount      decimal.Decimal
	Net           decimal.Decimal
	SubtotalExTax decimal.Decimal
	Tax           decimal.Decimal
}

// Calculate desglosa una línea a partir del precio con IVA incluido (servicio de dominio).
//
//	bruto     = precioConIVA * cantidad
//	descuento = r4(bruto * descuento% / 100)
//	neto      = r4(bruto - descuento)
//	base      = r4(neto / (1 + iva% / 100))
//	iva       = r4(neto - base)
//
// El IVA se obtiene por diferencia después del descuento, nunca sobre una base aparte.
// Precio cero o negativo devuelve ErrPriceUnavailable: no es un precio válido sino uno sin asignar.
func Calculate(in LineInput) (LineBreakdown, error) {
	if !in.PriceWithTax.IsPositive() {
		return LineBreakdown{}, domain.ErrPriceUnavailable
	}
	if in.Quantity < 1 {
		return LineBreakdown{}, fmt.Errorf("%w: cantidad debe ser al menos 1", domain.ErrInvalidInput)
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundred) {
		return LineBreakdown{}, fmt.Errorf("%w: descuento debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	if in.TaxRatePercent.IsNegative() {
		return LineBreakdown{}, fmt.Errorf("%w: IVA no puede ser negativo", domain.ErrInvalidInput)
	}

	gross := in.PriceWithTax.Mul(decimal.NewFromInt(int64(in.Quantity)))
	discount := round4(gross.Mul(in.DiscountPercent).Div(hundred))
	net := round4(gross.Sub(discount))
	subtotal := round4(net.Div(decimal.NewFromInt(1).Add(in.TaxRatePercent.Div(hundred))))
	tax := round4(net.Sub(subtotal))

	return LineBreakdown{
		Gross:         gross,
		Discount:      discount,
		Net:           net,
		SubtotalExTax: subtotal,
		Tax:           tax,
	}, nil
}

func round4(d decimal.Decimal) decimal.Decimal {
	return d.Round(internalPlaces)
}
