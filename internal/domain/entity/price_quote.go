package entity

import "github.com/shopspring/decimal"

// PriceQuote precio activo de una presentación.
// TaxRatePercent siempre en porcentaje (19, no 0.19); PriceWithTax redondeado a unidades enteras.
type PriceQuote struct {
	BasePrice      decimal.Decimal
	TaxRatePercent decimal.Decimal
	PriceWithTax   decimal.Decimal
}

// Available indica si hay un precio utilizable. Precio 0 equivale a "sin precio asignado".
func (q *PriceQuote) Available() bool {
	return q != nil && q.PriceWithTax.IsPositive()
}
