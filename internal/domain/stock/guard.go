package stock

import "github.com/jhoicas/inventario-ventas/internal/domain/entity"

// Request cantidad pedida para una línea o una salida.
type Request struct {
	Boxes      int
	Units      int
	TrackUnits bool // si es false las unidades sueltas no se validan
}

// Sufficient indica si el stock alcanza para lo pedido. Sin stock cargado responde false.
// El límite es inclusivo: pedir exactamente las cajas disponibles es válido.
func Sufficient(req Request, level *entity.StockLevel) bool {
	if level == nil {
		return false
	}
	if req.Boxes < 1 || req.Units < 0 {
		return false
	}
	if req.Boxes > level.Boxes {
		return false
	}
	if req.TrackUnits && req.Units > level.Units {
		return false
	}
	return true
}
