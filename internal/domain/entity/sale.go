package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleSubmission venta tal como se envía al backend.
type SaleSubmission struct {
	Description string               `json:"description"`
	Lines       []SaleSubmissionLine `json:"items"`
}

// SaleSubmissionLine ítem de la venta. DiscountAmount es el monto descontado, no el porcentaje.
type SaleSubmissionLine struct {
	PresentationID PresentationID  `json:"presentation_id"`
	ProductID      ProductID       `json:"product_id"`
	QuantityBoxes  int             `json:"quantity_boxes"`
	QuantityUnits  int             `json:"quantity_units"`
	DiscountAmount decimal.Decimal `json:"discount"`
}

// Receipt comprobante de la última venta registrada en la terminal.
type Receipt struct {
	IdempotencyKey string
	Description    string
	Seller         string
	Lines          []CartLine
	Totals         CartTotals
	SubmittedAt    time.Time
}
