package entity

import "github.com/shopspring/decimal"

// InventoryRow fila del inventario por usuario.
type InventoryRow struct {
	Product string `json:"product"`
	Family  string `json:"family"`
	Boxes   int    `json:"boxes"`
	Units   int    `json:"units"`
}

// SalesSummary resumen mensual de ventas.
type SalesSummary struct {
	Net         decimal.Decimal
	Discount    decimal.Decimal
	Tax         decimal.Decimal
	Goal        decimal.Decimal
	GoalPercent decimal.Decimal
}

// Subtotal venta antes de descuento e IVA: neto + descuento - iva.
func (s SalesSummary) Subtotal() decimal.Decimal {
	return s.Net.Add(s.Discount).Sub(s.Tax)
}

// TopProduct producto más vendido del periodo.
type TopProduct struct {
	Product    string `json:"product"`
	TotalBoxes int    `json:"total_boxes"`
}
