package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrSessionExpired = errors.New("la sesión expiró")

	// Catálogo, stock y precio: todos recuperables, la terminal los muestra como aviso.
	ErrCatalogUnavailable = errors.New("no se pudo cargar el catálogo")
	ErrStockUnavailable   = errors.New("no se pudo consultar el stock")
	ErrPriceUnavailable   = errors.New("la presentación no tiene precio asignado")
	ErrPriceFetch         = errors.New("no se pudo consultar el precio")
	ErrStockExceeded      = errors.New("la cantidad supera el stock disponible")

	ErrSelectionIncomplete = errors.New("selección incompleta")
	ErrInvalidSelection    = errors.New("la selección no pertenece a la lista cargada")
	ErrLineNotFound        = errors.New("línea no encontrada en el carrito")

	ErrEmptyCart        = errors.New("el carrito está vacío")
	ErrSubmissionFailed = errors.New("no se pudo registrar la venta")
	ErrNoReceipt        = errors.New("no hay una venta registrada en esta sesión")
	ErrSubmitInProgress = errors.New("hay una venta en curso")

	ErrBackendUnavailable = errors.New("el backend no respondió")
)

// RemoteError error devuelto por el backend con su mensaje para el usuario (campo "mensaje").
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend respondió %d", e.Status)
	}
	return fmt.Sprintf("backend respondió %d: %s", e.Status, e.Message)
}

// UserMessage mensaje para mostrar al usuario: el del backend si existe, si no fallback.
func UserMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
