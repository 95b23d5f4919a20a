package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/pkg/jsonx"
)

// dateLayouts formatos de fecha que devuelve el backend.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate cero si el valor viene vacío o en un formato desconocido.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

const queryDate = "2006-01-02"

type movementRequest struct {
	Type           entity.MovementType `json:"type"`
	ProductID      entity.ProductID    `json:"product_id"`
	PresentationID string              `json:"presentation_id,omitempty"`
	QuantityBoxes  int                 `json:"quantity_boxes"`
	QuantityUnits  int                 `json:"quantity_units"`
	Description    string              `json:"description"`
}

// RegisterMovement POST /movimientos.
func (c *Client) RegisterMovement(ctx context.Context, cred entity.Credentials, m entity.Movement) error {
	return c.do(ctx, request{
		op:     "registrar_movimiento",
		method: http.MethodPost,
		path:   "/movimientos",
		cred:   &cred,
		body: movementRequest{
			Type:           m.Type,
			ProductID:      m.ProductID,
			PresentationID: string(m.PresentationID),
			QuantityBoxes:  m.QuantityBoxes,
			QuantityUnits:  m.QuantityUnits,
			Description:    m.Description,
		},
	}, nil)
}

type movementWire struct {
	ID          jsonx.ID  `json:"id"`
	Fecha       string    `json:"fecha"`
	Tipo        string    `json:"tipo"`
	Familia     string    `json:"familia"`
	Producto    string    `json:"producto"`
	Cajas       jsonx.Int `json:"cajas"`
	Unidades    jsonx.Int `json:"unidades"`
	Descripcion string    `json:"descripcion"`
}

// Movements GET /movimientos?desde&hasta&producto.
func (c *Client) Movements(ctx context.Context, cred entity.Credentials, f entity.MovementFilter) ([]entity.MovementRecord, error) {
	q := url.Values{}
	if !f.From.IsZero() {
		q.Set("desde", f.From.Format(queryDate))
	}
	if !f.To.IsZero() {
		q.Set("hasta", f.To.Format(queryDate))
	}
	if f.Product != "" {
		q.Set("producto", f.Product)
	}
	var out []movementWire
	if err := c.do(ctx, request{op: "movimientos", method: http.MethodGet, path: "/movimientos", query: q, cred: &cred}, &out); err != nil {
		return nil, err
	}
	list := make([]entity.MovementRecord, 0, len(out))
	for _, w := range out {
		list = append(list, entity.MovementRecord{
			ID:          w.ID.String(),
			Date:        parseDate(w.Fecha),
			Type:        entity.MovementType(strings.ToLower(w.Tipo)),
			Family:      w.Familia,
			Product:     w.Producto,
			Boxes:       int(w.Cajas),
			Units:       int(w.Unidades),
			Description: w.Descripcion,
		})
	}
	return list, nil
}

type pricesResponse struct {
	Productos []struct {
		ID            jsonx.ID            `json:"id"`
		Nombre        string              `json:"nombre"`
		Familia       string              `json:"familia"`
		BasePrice     decimal.NullDecimal `json:"base_price"`
		IVAApplicable bool                `json:"iva_applicable"`
		UpdatedAt     string              `json:"updated_at"`
	} `json:"productos"`
}

// ActivePrices GET /precios.
func (c *Client) ActivePrices(ctx context.Context, cred entity.Credentials) ([]entity.ProductPrice, error) {
	var out pricesResponse
	if err := c.do(ctx, request{op: "precios", method: http.MethodGet, path: "/precios", cred: &cred}, &out); err != nil {
		return nil, err
	}
	list := make([]entity.ProductPrice, 0, len(out.Productos))
	for _, w := range out.Productos {
		p := entity.ProductPrice{
			ProductID:     entity.ProductID(w.ID),
			ProductName:   w.Nombre,
			FamilyName:    w.Familia,
			BasePrice:     w.BasePrice.Decimal,
			IVAApplicable: w.IVAApplicable,
		}
		if t := parseDate(w.UpdatedAt); !t.IsZero() {
			p.UpdatedAt = &t
		}
		list = append(list, p)
	}
	return list, nil
}

type assignPriceRequest struct {
	ProductID     entity.ProductID `json:"product_id"`
	BasePrice     decimal.Decimal  `json:"base_price"`
	IVAApplicable bool             `json:"iva_applicable"`
}

// AssignPrice POST /precios. El backend desactiva el precio anterior.
func (c *Client) AssignPrice(ctx context.Context, cred entity.Credentials, a entity.PriceAssignment) error {
	return c.do(ctx, request{
		op:     "asignar_precio",
		method: http.MethodPost,
		path:   "/precios",
		cred:   &cred,
		body:   assignPriceRequest{ProductID: a.ProductID, BasePrice: a.BasePrice, IVAApplicable: a.IVAApplicable},
	}, nil)
}
