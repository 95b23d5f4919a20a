package entity

// StockLevel existencias de una presentación para un usuario (lectura puntual del backend).
type StockLevel struct {
	Boxes int `json:"boxes"`
	Units int `json:"units"`
}
