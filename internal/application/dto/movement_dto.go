package dto

import "time"

// RegisterMovementRequest body para POST /api/movements.
type RegisterMovementRequest struct {
	Type           string `json:"type"` // entrada | salida
	ProductID      string `json:"product_id"`
	PresentationID string `json:"presentation_id"`
	QuantityBoxes  int    `json:"quantity_boxes"`
	QuantityUnits  int    `json:"quantity_units"`
	Description    string `json:"description"`
}

// MovementDTO fila del historial de movimientos.
type MovementDTO struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Family      string    `json:"family"`
	Product     string    `json:"product"`
	Boxes       int       `json:"boxes"`
	Units       int       `json:"units"`
	Description string    `json:"description"`
}
