package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/pkg/jsonx"
)

type inventoryResponse struct {
	Inventario []struct {
		Producto string    `json:"producto"`
		Familia  string    `json:"familia"`
		Cajas    jsonx.Int `json:"cajas"`
		Unidades jsonx.Int `json:"unidades"`
	} `json:"inventario"`
}

// Inventory GET /dashboard?user_id=.
func (c *Client) Inventory(ctx context.Context, cred entity.Credentials) ([]entity.InventoryRow, error) {
	var out inventoryResponse
	err := c.do(ctx, request{
		op:     "dashboard",
		method: http.MethodGet,
		path:   "/dashboard",
		query:  url.Values{"user_id": {string(cred.UserID)}},
		cred:   &cred,
	}, &out)
	if err != nil {
		return nil, err
	}
	rows := make([]entity.InventoryRow, 0, len(out.Inventario))
	for _, w := range out.Inventario {
		rows = append(rows, entity.InventoryRow{
			Product: w.Producto,
			Family:  w.Familia,
			Boxes:   int(w.Cajas),
			Units:   int(w.Unidades),
		})
	}
	return rows, nil
}

type summaryWire struct {
	Neto                   decimal.NullDecimal `json:"neto"`
	Descuento              decimal.NullDecimal `json:"descuento"`
	IVA                    decimal.NullDecimal `json:"iva"`
	Meta                   decimal.NullDecimal `json:"meta"`
	PorcentajeCumplimiento decimal.NullDecimal `json:"porcentaje_cumplimiento"`
}

// SalesSummary GET /ventas/resumen?month=YYYY-MM-01. Campos null cuentan como 0.
func (c *Client) SalesSummary(ctx context.Context, cred entity.Credentials, month time.Time) (*entity.SalesSummary, error) {
	var out summaryWire
	err := c.do(ctx, request{
		op:     "resumen_ventas",
		method: http.MethodGet,
		path:   "/ventas/resumen",
		query:  url.Values{"month": {month.Format("2006-01") + "-01"}},
		cred:   &cred,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &entity.SalesSummary{
		Net:         out.Neto.Decimal,
		Discount:    out.Descuento.Decimal,
		Tax:         out.IVA.Decimal,
		Goal:        out.Meta.Decimal,
		GoalPercent: out.PorcentajeCumplimiento.Decimal,
	}, nil
}

type topProductsResponse struct {
	TopProductos []struct {
		Producto   string    `json:"producto"`
		TotalCajas jsonx.Int `json:"total_cajas"`
	} `json:"top_productos"`
}

// TopProducts GET /ventas/top-productos?user_id&fecha_inicio&fecha_fin.
func (c *Client) TopProducts(ctx context.Context, cred entity.Credentials, from, to time.Time) ([]entity.TopProduct, error) {
	var out topProductsResponse
	err := c.do(ctx, request{
		op:     "top_productos",
		method: http.MethodGet,
		path:   "/ventas/top-productos",
		query: url.Values{
			"user_id":      {string(cred.UserID)},
			"fecha_inicio": {from.Format(queryDate)},
			"fecha_fin":    {to.Format(queryDate)},
		},
		cred: &cred,
	}, &out)
	if err != nil {
		return nil, err
	}
	list := make([]entity.TopProduct, 0, len(out.TopProductos))
	for _, w := range out.TopProductos {
		list = append(list, entity.TopProduct{Product: w.Producto, TotalBoxes: int(w.TotalCajas)})
	}
	return list, nil
}

// ExportInventory GET /exportar/inventario. Devuelve el archivo sin interpretarlo.
func (c *Client) ExportInventory(ctx context.Context, cred entity.Credentials) ([]byte, string, error) {
	resp, err := c.send(ctx, request{
		op:     "exportar_inventario",
		method: http.MethodGet,
		path:   "/exportar/inventario",
		query:  url.Values{"user_id": {string(cred.UserID)}},
		cred:   &cred,
	})
	if err != nil {
		return nil, "", err
	}
	return resp.body, resp.contentType, nil
}
