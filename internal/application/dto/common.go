package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple con mensaje para el usuario.
type MessageResponse struct {
	Message string `json:"message"`
}

// Money monto con su valor interno (4 decimales) y su forma para mostrar ($21.420).
type Money struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}
