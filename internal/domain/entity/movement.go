package entity

import "time"

// MovementType tipo de movimiento de inventario, con los valores que espera el backend.
type MovementType string

const (
	MovementEntry MovementType = "entrada"
	MovementExit  MovementType = "salida"
)

// Valid indica si el tipo es entrada o salida.
func (t MovementType) Valid() bool {
	return t == MovementEntry || t == MovementExit
}

// Movement movimiento a registrar.
type Movement struct {
	Type           MovementType
	ProductID      ProductID
	PresentationID PresentationID
	QuantityBoxes  int
	QuantityUnits  int
	Description    string
}

// MovementRecord movimiento tal como lo lista el backend.
type MovementRecord struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date"`
	Type        MovementType `json:"type"`
	Family      string       `json:"family"`
	Product     string       `json:"product"`
	Boxes       int          `json:"boxes"`
	Units       int          `json:"units"`
	Description string       `json:"description"`
}

// MovementFilter filtros del historial. Fechas cero = sin filtro.
type MovementFilter struct {
	From    time.Time
	To      time.Time
	Product string
}
