package dto

// SelectFamilyRequest body para PUT /api/sales/selection/family.
type SelectFamilyRequest struct {
	FamilyID string `json:"family_id"`
}

// SelectProductRequest body para PUT /api/sales/selection/product.
type SelectProductRequest struct {
	ProductID string `json:"product_id"`
}

// SelectPresentationRequest body para PUT /api/sales/selection/presentation.
type SelectPresentationRequest struct {
	PresentationID string `json:"presentation_id"`
}

// QuantityRequest body para PUT /api/sales/quantity. Units es opcional (unidades sueltas).
type QuantityRequest struct {
	Boxes int `json:"boxes"`
	Units int `json:"units"`
}

// DiscountRequest body para PUT /api/sales/discount. Percent en 0..100 (ej. "10" o "12.5").
type DiscountRequest struct {
	Percent string `json:"percent"`
}

// SubmitSaleRequest body para POST /api/sales/submit.
type SubmitSaleRequest struct {
	Description string `json:"description"`
}

// SubmitSaleResponse resultado del envío. Outcome: submitted, empty_cart, in_flight, duplicate.
type SubmitSaleResponse struct {
	Outcome        string        `json:"outcome"`
	Message        string        `json:"message"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
	State          *TerminalView `json:"state"`
}

// OptionDTO elemento de una lista seleccionable.
type OptionDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StockDTO existencias de la presentación seleccionada.
type StockDTO struct {
	Boxes int `json:"boxes"`
	Units int `json:"units"`
}

// PriceQuoteDTO precio activo de la presentación seleccionada.
type PriceQuoteDTO struct {
	BasePrice      Money  `json:"base_price"`
	TaxRatePercent string `json:"tax_rate_percent"`
	PriceWithTax   Money  `json:"price_with_tax"`
}

// LineBreakdownDTO desglose de una línea (previa o en el carrito).
type LineBreakdownDTO struct {
	Gross         Money `json:"gross"`
	Discount      Money `json:"discount"`
	SubtotalExTax Money `json:"subtotal_ex_tax"`
	Tax           Money `json:"tax"`
	Total         Money `json:"total"`
}

// CartLineDTO línea del carrito.
type CartLineDTO struct {
	ID               string           `json:"id"`
	FamilyName       string           `json:"family_name"`
	ProductID        string           `json:"product_id"`
	ProductName      string           `json:"product_name"`
	PresentationID   string           `json:"presentation_id"`
	PresentationName string           `json:"presentation_name"`
	QuantityBoxes    int              `json:"quantity_boxes"`
	QuantityUnits    int              `json:"quantity_units"`
	DiscountPercent  string           `json:"discount_percent"`
	UnitPriceWithTax Money            `json:"unit_price_with_tax"`
	Amounts          LineBreakdownDTO `json:"amounts"`
}

// CartTotalsDTO totales del carrito (sumas sobre las líneas).
type CartTotalsDTO struct {
	Subtotal Money `json:"subtotal"`
	Tax      Money `json:"tax"`
	Discount Money `json:"discount"`
	Total    Money `json:"total"`
}

// AddStateDTO estado del botón "agregar al carrito".
type AddStateDTO struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}

// TerminalView estado completo de la terminal de ventas de la sesión.
type TerminalView struct {
	Families       []OptionDTO `json:"families"`
	Products       []OptionDTO `json:"products"`
	Presentations  []OptionDTO `json:"presentations"`
	FamilyID       string      `json:"family_id,omitempty"`
	ProductID      string      `json:"product_id,omitempty"`
	PresentationID string      `json:"presentation_id,omitempty"`

	Loading bool           `json:"loading"`
	Stock   *StockDTO      `json:"stock"`
	Price   *PriceQuoteDTO `json:"price"`

	QuantityBoxes   int               `json:"quantity_boxes"`
	QuantityUnits   int               `json:"quantity_units"`
	DiscountPercent string            `json:"discount_percent"`
	Preview         *LineBreakdownDTO `json:"preview,omitempty"`
	AddState        AddStateDTO       `json:"add_state"`

	Lines      []CartLineDTO `json:"lines"`
	Totals     CartTotalsDTO `json:"totals"`
	Submitting bool          `json:"submitting"`
	HasReceipt bool          `json:"has_receipt"`

	// Notices avisos para el usuario (catálogo, stock o precio no disponibles).
	Notices []string `json:"notices"`
}
