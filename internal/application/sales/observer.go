package sales

// Observer recibe eventos de la terminal para métricas. Las implementaciones no deben bloquear.
type Observer interface {
	// StaleResponse respuesta descartada porque la selección cambió (kind: presentations, stock, price).
	StaleResponse(kind string)
	// SubmitOutcome resultado de cada intento de envío de venta.
	SubmitOutcome(outcome string)
}

type nopObserver struct{}

func (nopObserver) StaleResponse(string) {}
func (nopObserver) SubmitOutcome(string) {}
