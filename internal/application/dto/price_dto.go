package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductPriceDTO fila de GET /api/prices.
type ProductPriceDTO struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	FamilyName    string          `json:"family_name"`
	BasePrice     decimal.Decimal `json:"base_price"`
	IVAApplicable bool            `json:"iva_applicable"`
	NetPrice      decimal.Decimal `json:"net_price"` // base * 1.19 si aplica IVA
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

// AssignPriceRequest body para POST /api/prices.
type AssignPriceRequest struct {
	ProductID     string          `json:"product_id"`
	BasePrice     decimal.Decimal `json:"base_price"`
	IVAApplicable bool            `json:"iva_applicable"`
}
