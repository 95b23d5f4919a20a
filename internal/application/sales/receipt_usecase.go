package sales

import (
	"fmt"

	"github.com/jhoicas/inventario-ventas/internal/application/ports"
)

// ReceiptUseCase genera el PDF del comprobante de la última venta de la terminal.
type ReceiptUseCase struct {
	renderer ports.ReceiptRenderer
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(renderer ports.ReceiptRenderer) *ReceiptUseCase {
	return &ReceiptUseCase{renderer: renderer}
}

// Download devuelve (pdf, nombre de archivo). domain.ErrNoReceipt si la terminal aún no
// registró ninguna venta.
func (uc *ReceiptUseCase) Download(t *Terminal) ([]byte, string, error) {
	r, err := t.Receipt()
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.renderer.Render(r)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generar pdf: %w", err)
	}
	filename := fmt.Sprintf("venta-%s-%s.pdf", r.SubmittedAt.Format("20060102-150405"), shortKey(r.IdempotencyKey))
	return pdf, filename, nil
}

func shortKey(k string) string {
	if len(k) > 8 {
		return k[:8]
	}
	return k
}
