package ports

import "github.com/jhoicas/inventario-ventas/internal/domain/entity"

// ReceiptRenderer genera la representación gráfica (PDF) del comprobante de venta.
type ReceiptRenderer interface {
	Render(r *entity.Receipt) ([]byte, error)
}
