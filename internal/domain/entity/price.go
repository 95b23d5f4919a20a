package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductPrice fila de la pantalla de precios.
type ProductPrice struct {
	ProductID     ProductID
	ProductName   string
	FamilyName    string
	BasePrice     decimal.Decimal
	IVAApplicable bool
	UpdatedAt     *time.Time
}

// PriceAssignment nuevo precio base para un producto.
type PriceAssignment struct {
	ProductID     ProductID
	BasePrice     decimal.Decimal
	IVAApplicable bool
}
