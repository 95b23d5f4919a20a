// Package backend adaptador HTTP hacia el backend REST de inventario. Implementa todos
// los puertos de internal/application/ports con net/http y encoding/json.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/tracing"
)

// Verificar en tiempo de compilación que Client implementa los puertos.
var (
	_ ports.AuthGateway       = (*Client)(nil)
	_ ports.CatalogGateway    = (*Client)(nil)
	_ ports.StockGateway      = (*Client)(nil)
	_ ports.PriceGateway      = (*Client)(nil)
	_ ports.SaleGateway       = (*Client)(nil)
	_ ports.MovementGateway   = (*Client)(nil)
	_ ports.PriceAdminGateway = (*Client)(nil)
	_ ports.DashboardGateway  = (*Client)(nil)
)

// maxBody límite de lectura de respuestas (la exportación de inventario es la más grande).
const maxBody = 8 << 20

// ErrResponseTooLarge la respuesta del backend supera maxBody. No se entrega truncada.
var ErrResponseTooLarge = errors.New("respuesta del backend demasiado grande")

// Config parámetros del cliente.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// PriceByPresentation usa /precios/:presentation_id en lugar de /precios/:product_id/:presentation_id.
	PriceByPresentation bool
}

// Client cliente del backend. Es seguro para uso concurrente.
type Client struct {
	baseURL             string
	priceByPresentation bool
	httpClient          *http.Client
	log                 zerolog.Logger
}

// NewClient construye el cliente. Timeout 0 deja solo el del contexto.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL:             strings.TrimRight(cfg.BaseURL, "/"),
		priceByPresentation: cfg.PriceByPresentation,
		httpClient:          &http.Client{Timeout: cfg.Timeout},
		log:                 log,
	}
}

// request describe una llamada. op nombra la operación en métricas, trazas y logs.
type request struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	cred    *entity.Credentials
	headers map[string]string
}

type response struct {
	status      int
	body        []byte
	contentType string
}

// errorBody forma de error del backend.
type errorBody struct {
	Mensaje string `json:"mensaje"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// send ejecuta la llamada y traduce los errores:
//   - sin respuesta: domain.ErrBackendUnavailable
//   - 401/403: domain.ErrUnauthorized + *domain.RemoteError
//   - 404: domain.ErrNotFound + *domain.RemoteError
//   - otro no-2xx: *domain.RemoteError con el "mensaje" del backend
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	ctx, span := tracing.StartSpan(ctx, "backend."+r.op)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", r.method),
		attribute.String("http.route", r.path),
	)

	start := time.Now()
	resp, err := c.roundTrip(ctx, r)
	status := 0
	if resp != nil {
		status = resp.status
	}
	metrics.ObserveBackend(r.op, status, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", status))

	if err == nil && (status < 200 || status > 299) {
		err = remoteError(resp)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Debug().Err(err).Str("op", r.op).Int("status", status).Dur("elapsed", time.Since(start)).Msg("backend: llamada fallida")
		return resp, err
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, r request) (*response, error) {
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("backend: %s: serializar request: %w", r.op, err)
		}
		body = bytes.NewReader(b)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: crear request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.cred != nil && r.cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cred.Token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrBackendUnavailable, r.op, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrBackendUnavailable, r.op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: leer respuesta: %w", domain.ErrBackendUnavailable, r.op, err)
	}
	if len(raw) > maxBody {
		return nil, fmt.Errorf("%w: %w: %s: supera %d bytes", domain.ErrBackendUnavailable, ErrResponseTooLarge, r.op, maxBody)
	}
	return &response{status: resp.StatusCode, body: raw, contentType: resp.Header.Get("Content-Type")}, nil
}

func remoteError(resp *response) error {
	re := &domain.RemoteError{Status: resp.status}
	var eb errorBody
	if json.Unmarshal(resp.body, &eb) == nil {
		switch {
		case eb.Mensaje != "":
			re.Message = eb.Mensaje
		case eb.Message != "":
			re.Message = eb.Message
		default:
			re.Message = eb.Error
		}
	}
	switch resp.status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, re)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, re)
	}
	return re
}

// do ejecuta la llamada y decodifica el cuerpo en out (si out no es nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || isNull(resp.body) {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("backend: %s: deserializar respuesta: %w", r.op, err)
	}
	return nil
}

// isNull cuerpo vacío o literal null.
func isNull(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

func seg(s string) string { return url.PathEscape(s) }
