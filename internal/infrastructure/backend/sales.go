package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/pricing"
	"github.com/jhoicas/inventario-ventas/pkg/jsonx"
)

type stockWire struct {
	Cajas    jsonx.Int `json:"cajas"`
	Unidades jsonx.Int `json:"unidades"`
}

// Stock GET /inventario/:user_id/:presentation_id. 404 o cuerpo null: domain.ErrNotFound.
func (c *Client) Stock(ctx context.Context, cred entity.Credentials, presentationID entity.PresentationID) (*entity.StockLevel, error) {
	var out *stockWire
	err := c.do(ctx, request{
		op:     "inventario",
		method: http.MethodGet,
		path:   "/inventario/" + seg(string(cred.UserID)) + "/" + seg(string(presentationID)),
		cred:   &cred,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return &entity.StockLevel{Boxes: int(out.Cajas), Units: int(out.Unidades)}, nil
}

type priceWire struct {
	PrecioBase     decimal.NullDecimal `json:"precio_base"`
	IVA            decimal.NullDecimal `json:"iva"`
	PrecioConIVA   decimal.NullDecimal `json:"precio_con_iva"`
	PrecioUnitario decimal.NullDecimal `json:"precio_unitario"`
}

// Quote GET /precios/:product_id/:presentation_id (o /precios/:presentation_id según
// configuración). null, 404 o precio 0 son domain.ErrPriceUnavailable; cualquier otra
// falla es domain.ErrPriceFetch.
func (c *Client) Quote(ctx context.Context, cred entity.Credentials, productID entity.ProductID, presentationID entity.PresentationID) (*entity.PriceQuote, error) {
	path := "/precios/" + seg(string(productID)) + "/" + seg(string(presentationID))
	if c.priceByPresentation {
		path = "/precios/" + seg(string(presentationID))
	}
	var out *priceWire
	err := c.do(ctx, request{op: "precio", method: http.MethodGet, path: path, cred: &cred}, &out)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.ErrPriceUnavailable
	case err != nil:
		return nil, fmt.Errorf("%w: %w", domain.ErrPriceFetch, err)
	case out == nil:
		return nil, domain.ErrPriceUnavailable
	}

	withTax := out.PrecioConIVA
	if !withTax.Valid {
		withTax = out.PrecioUnitario
	}
	q := pricing.NewQuote(out.PrecioBase.Decimal, out.IVA.Decimal, withTax)
	if !q.Available() {
		return nil, domain.ErrPriceUnavailable
	}
	return &q, nil
}

// RecordSale POST /ventas con la cabecera Idempotency-Key.
func (c *Client) RecordSale(ctx context.Context, cred entity.Credentials, sale entity.SaleSubmission, idempotencyKey string) error {
	return c.do(ctx, request{
		op:      "ventas",
		method:  http.MethodPost,
		path:    "/ventas",
		body:    sale,
		cred:    &cred,
		headers: map[string]string{"Idempotency-Key": idempotencyKey},
	}, nil)
}
