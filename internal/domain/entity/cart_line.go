package entity

import "github.com/shopspring/decimal"

// LineID identificador de una línea del carrito, generado en el BFF.
type LineID string

// CartLine línea del carrito. Inmutable una vez creada; solo se elimina.
// TaxAmount + SubtotalExTax == TotalWithTax.
type CartLine struct {
	ID               LineID
	PresentationID   PresentationID
	ProductID        ProductID
	FamilyName       string
	PresentationName string
	ProductName      string
	QuantityBoxes    int
	QuantityUnits    int
	DiscountPercent  decimal.Decimal
	UnitPriceWithTax decimal.Decimal
	GrossTotal       decimal.Decimal
	DiscountAmount   decimal.Decimal
	SubtotalExTax    decimal.Decimal
	TaxAmount        decimal.Decimal
	TotalWithTax     decimal.Decimal
}

// CartTotals sumas del carrito.
type CartTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}
