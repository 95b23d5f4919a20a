package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// GeneralIVARate tarifa general de IVA en Colombia, en porcentaje.
var GeneralIVARate = decimal.NewFromInt(19)

// NormalizeTaxRate lleva la tarifa a porcentaje. El backend la envía a veces como
// fracción (0.19) y a veces como porcentaje (19): valores en (0, 1) se tratan como fracción;
// 1 es 1%.
func NormalizeTaxRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsPositive() && rate.LessThan(decimal.NewFromInt(1)) {
		return rate.Mul(hundred)
	}
	return rate
}

// NewQuote arma el precio activo normalizado. Si el backend no envía el precio con IVA
// se deriva de la base; en ambos casos queda redondeado a unidades enteras.
func NewQuote(base, rate decimal.Decimal, withTax decimal.NullDecimal) entity.PriceQuote {
	pct := NormalizeTaxRate(rate)
	price := base.Mul(decimal.NewFromInt(1).Add(pct.Div(hundred)))
	if withTax.Valid && withTax.Decimal.IsPositive() {
		price = withTax.Decimal
	}
	return entity.PriceQuote{
		BasePrice:      base,
		TaxRatePercent: pct,
		PriceWithTax:   price.Round(0),
	}
}

// NetPrice precio de venta de la pantalla de precios: base con IVA general si aplica.
func NetPrice(base decimal.Decimal, ivaApplicable bool) decimal.Decimal {
	if !ivaApplicable {
		return base
	}
	return base.Mul(decimal.NewFromInt(1).Add(GeneralIVARate.Div(hundred)))
}
