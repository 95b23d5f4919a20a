package dto

import "github.com/shopspring/decimal"

// InventoryRowDTO fila del inventario del usuario.
type InventoryRowDTO struct {
	Product string `json:"product"`
	Family  string `json:"family"`
	Boxes   int    `json:"boxes"`
	Units   int    `json:"units"`
}

// SalesSummaryDTO respuesta de GET /api/dashboard/sales-summary.
type SalesSummaryDTO struct {
	Month       string          `json:"month"` // YYYY-MM
	Subtotal    decimal.Decimal `json:"subtotal"` // neto + descuento - iva
	Discount    decimal.Decimal `json:"discount"`
	Tax         decimal.Decimal `json:"tax"`
	Net         decimal.Decimal `json:"net"`
	Goal        decimal.Decimal `json:"goal"`
	GoalPercent decimal.Decimal `json:"goal_percent"`
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	Product    string `json:"product"`
	TotalBoxes int    `json:"total_boxes"`
}

// DashboardDTO respuesta de GET /api/dashboard: las tres vistas en una sola llamada.
// Una sección que falla llega vacía y su error en Notices.
type DashboardDTO struct {
	Inventory   []InventoryRowDTO `json:"inventory"`
	Summary     *SalesSummaryDTO  `json:"summary"`
	TopProducts []TopProductDTO   `json:"top_products"`
	Notices     []string          `json:"notices"`
}
