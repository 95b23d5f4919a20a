package backend_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/backend"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var cred = entity.Credentials{UserID: "7", Token: "tok-backend"}

// newServer levanta un backend simulado y un cliente apuntando a él.
func newServer(t *testing.T, mux *http.ServeMux, byPresentation bool) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return backend.NewClient(backend.Config{
		BaseURL:             srv.URL + "/api/",
		Timeout:             2 * time.Second,
		PriceByPresentation: byPresentation,
	}, zerolog.Nop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Login y catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_DevuelveTokenYUsuario(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.co", body["email"])
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, 200, `{"token":"jwt","user":{"id":12,"email":"a@b.co"}}`)
	})
	c := newServer(t, mux, false)

	res, err := c.Login(context.Background(), "a@b.co", "secreta")

	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, entity.UserID("12"), res.UserID)
}

func TestLogin_CredencialesInvalidasTraeMensaje(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 401, `{"mensaje":"Contraseña incorrecta"}`)
	})
	c := newServer(t, mux, false)

	_, err := c.Login(context.Background(), "a@b.co", "x")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Contraseña incorrecta", domain.UserMessage(err, ""))
}

func TestLoadCatalog_ResuelveFamiliaDeCadaProducto(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/familias", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-backend", r.Header.Get("Authorization"))
		writeJSON(w, 200, `[{"id":1,"name":"Bebidas"},{"id":"2","name":"Aseo"}]`)
	})
	mux.HandleFunc("/api/productos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, `[
			{"id":10,"name":"Gaseosa","familia":"bebidas"},
			{"id":11,"name":"Jabón","familia":2},
			{"id":12,"name":"Suelto","familia":"Otra"}
		]`)
	})
	c := newServer(t, mux, false)

	cat, err := c.LoadCatalog(context.Background(), cred)

	require.NoError(t, err)
	require.Len(t, cat.Families, 2)
	require.Len(t, cat.Products, 3)
	assert.Equal(t, entity.FamilyID("1"), cat.Products[0].FamilyID)
	assert.Equal(t, "Bebidas", cat.Products[0].FamilyName)
	assert.Equal(t, entity.FamilyID("2"), cat.Products[1].FamilyID, "familia referenciada por id")
	assert.Empty(t, cat.Products[2].FamilyID, "familia desconocida no se asigna")
	assert.Len(t, cat.ProductsOf("1"), 1)
}

func TestLoadCatalog_FallaSiFallaUnaLista(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/familias", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, `[]`)
	})
	mux.HandleFunc("/api/productos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 500, `{"mensaje":"error interno"}`)
	})
	c := newServer(t, mux, false)

	_, err := c.LoadCatalog(context.Background(), cred)

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 500, remote.Status)
}

func TestPresentations_ListaYProductoSinPresentaciones(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/presentaciones/10", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, `{"presentaciones":[{"id":100,"presentation_name":"Caja x24"}]}`)
	})
	mux.HandleFunc("/api/presentaciones/99", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 404, `{"mensaje":"sin presentaciones"}`)
	})
	c := newServer(t, mux, false)

	list, err := c.Presentations(context.Background(), cred, "10")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.Presentation{ID: "100", ProductID: "10", Name: "Caja x24"}, list[0])

	list, err = c.Presentations(context.Background(), cred, "99")
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock y precio
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_LeeCajasYUnidades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/inventario/7/100", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, `{"cajas":"5","unidades":3}`)
	})
	mux.HandleFunc("/api/inventario/7/200", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 404, `{"mensaje":"Sin inventario"}`)
	})
	c := newServer(t, mux, false)

	lvl, err := c.Stock(context.Background(), cred, "100")
	require.NoError(t, err)
	assert.Equal(t, &entity.StockLevel{Boxes: 5, Units: 3}, lvl)

	_, err = c.Stock(context.Background(), cred, "200")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuote_NormalizaTarifaYRedondeaPrecio(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/precios/10/100", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, `{"precio_base":"10000.00","iva":0.19,"precio_con_iva":"11900.40"}`)
	})
	c := newServer(t, mux, false)

	q, err := c.Quote(context.Background(), cred, "10", "100")

	require.NoError(t, err)
	assert.True(t, q.TaxRatePercent.Equal(dec("19")))
	assert.True(t, q.PriceWithTax.Equal(dec("11900")))
	assert.True(t, q.BasePrice.Equal(dec("10000")))
}

func TestQuote_RutaPorPresentacionYPrecioUnitario(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/precios/100", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, `{"precio_unitario":6000,"iva":19}`)
	})
	c := newServer(t, mux, true)

	q, err := c.Quote(context.Background(), cred, "10", "100")

	require.NoError(t, err)
	assert.True(t, q.PriceWithTax.Equal(dec("6000")))
}

func TestQuote_SinPrecioEsDistintoDeFalloDeConsulta(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/precios/10/nulo", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, `null`)
	})
	mux.HandleFunc("/api/precios/10/cero", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, `{"precio_base":0,"iva":19,"precio_con_iva":0}`)
	})
	mux.HandleFunc("/api/precios/10/falta", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 404, `{"mensaje":"Precio no encontrado"}`)
	})
	mux.HandleFunc("/api/precios/10/roto", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 500, `{"mensaje":"error de base de datos"}`)
	})
	c := newServer(t, mux, false)
	ctx := context.Background()

	for _, id := range []entity.PresentationID{"nulo", "cero", "falta"} {
		_, err := c.Quote(ctx, cred, "10", id)
		assert.ErrorIs(t, err, domain.ErrPriceUnavailable, string(id))
		assert.NotErrorIs(t, err, domain.ErrPriceFetch, string(id))
	}

	_, err := c.Quote(ctx, cred, "10", "roto")
	assert.ErrorIs(t, err, domain.ErrPriceFetch)
	assert.NotErrorIs(t, err, domain.ErrPriceUnavailable)
	assert.Equal(t, "error de base de datos", domain.UserMessage(err, ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSale_EnviaCuerpoYCabeceraDeIdempotencia(t *testing.T) {
	var (
		gotKey  string
		gotBody map[string]any
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ventas", func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, 201, `{"mensaje":"Venta registrada"}`)
	})
	c := newServer(t, mux, false)
	sale := entity.SaleSubmission{
		Description: "Cliente Pérez",
		Lines: []entity.SaleSubmissionLine{
			{PresentationID: "100", ProductID: "10", QuantityBoxes: 2, DiscountAmount: dec("2380")},
		},
	}

	err := c.RecordSale(context.Background(), cred, sale, "key-1")

	require.NoError(t, err)
	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, "Cliente Pérez", gotBody["description"])
	items, ok := gotBody["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "100", item["presentation_id"])
	assert.Equal(t, "10", item["product_id"])
	assert.EqualValues(t, 2, item["quantity_boxes"])
	assert.EqualValues(t, 0, item["quantity_units"])
	assert.Equal(t, "2380", item["discount"])
}

func TestRecordSale_ErrorDelBackendConMensaje(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ventas", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 400, `{"mensaje":"Stock insuficiente para Gaseosa"}`)
	})
	c := newServer(t, mux, false)

	err := c.RecordSale(context.Background(), cred, entity.SaleSubmission{}, "k")

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 400, remote.Status)
	assert.Equal(t, "Stock insuficiente para Gaseosa", remote.Message)
}

func TestCliente_BackendCaidoEsErrBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	url := srv.URL
	srv.Close()
	c := backend.NewClient(backend.Config{BaseURL: url, Timeout: time.Second}, zerolog.Nop())

	_, err := c.Stock(context.Background(), cred, "100")

	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos, precios y reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_FiltrosYParseo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/movimientos", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "salida", body["type"])
			assert.EqualValues(t, 3, body["quantity_boxes"])
			writeJSON(w, 201, `{"mensaje":"ok"}`)
			return
		}
		assert.Equal(t, "2025-07-01", r.URL.Query().Get("desde"))
		assert.Equal(t, "2025-07-31", r.URL.Query().Get("hasta"))
		assert.Equal(t, "gaseosa", r.URL.Query().Get("producto"))
		writeJSON(w, 200, `[{"id":1,"fecha":"2025-07-04T10:30:00Z","tipo":"Entrada","familia":"Bebidas","producto":"Gaseosa","cajas":4,"unidades":"2","descripcion":"compra"}]`)
	})
	c := newServer(t, mux, false)
	ctx := context.Background()

	err := c.RegisterMovement(ctx, cred, entity.Movement{Type: entity.MovementExit, ProductID: "10", QuantityBoxes: 3})
	require.NoError(t, err)

	list, err := c.Movements(ctx, cred, entity.MovementFilter{
		From:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		Product: "gaseosa",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.MovementEntry, list[0].Type)
	assert.Equal(t, 4, list[0].Boxes)
	assert.Equal(t, 2, list[0].Units)
	assert.Equal(t, 2025, list[0].Date.Year())
}

func TestActivePrices_YAsignacion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/precios", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "10", body["product_id"])
			assert.Equal(t, true, body["iva_applicable"])
			writeJSON(w, 201, `{"mensaje":"Precio asignado"}`)
			return
		}
		writeJSON(w, 200, `{"productos":[{"id":10,"nombre":"Gaseosa","familia":"Bebidas","base_price":"10000","iva_applicable":true,"updated_at":"2025-07-04T00:00:00Z"},{"id":11,"nombre":"Jabón","familia":"Aseo","base_price":null,"iva_applicable":false,"updated_at":null}]}`)
	})
	c := newServer(t, mux, false)
	ctx := context.Background()

	list, err := c.ActivePrices(ctx, cred)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].BasePrice.Equal(dec("10000")))
	require.NotNil(t, list[0].UpdatedAt)
	assert.Nil(t, list[1].UpdatedAt)
	assert.True(t, list[1].BasePrice.IsZero())

	require.NoError(t, c.AssignPrice(ctx, cred, entity.PriceAssignment{ProductID: "10", BasePrice: dec("12000"), IVAApplicable: true}))
}

func TestReportes_ParametrosYParseo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("user_id"))
		writeJSON(w, 200, `{"inventario":[{"producto":"Gaseosa","familia":"Bebidas","cajas":5,"unidades":0}]}`)
	})
	mux.HandleFunc("/api/ventas/resumen", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-07-01", r.URL.Query().Get("month"))
		writeJSON(w, 200, `{"neto":"100000","descuento":5000,"iva":"15966","meta":null,"porcentaje_cumplimiento":"12.5"}`)
	})
	mux.HandleFunc("/api/ventas/top-productos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-07-01", r.URL.Query().Get("fecha_inicio"))
		assert.Equal(t, "2025-07-31", r.URL.Query().Get("fecha_fin"))
		writeJSON(w, 200, `{"top_productos":[{"producto":"Gaseosa","total_cajas":"40"}]}`)
	})
	mux.HandleFunc("/api/exportar/inventario", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "producto,cajas\nGaseosa,5\n")
	})
	c := newServer(t, mux, false)
	ctx := context.Background()
	july := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	rows, err := c.Inventory(ctx, cred)
	require.NoError(t, err)
	assert.Equal(t, []entity.InventoryRow{{Product: "Gaseosa", Family: "Bebidas", Boxes: 5}}, rows)

	s, err := c.SalesSummary(ctx, cred, july)
	require.NoError(t, err)
	assert.True(t, s.Goal.IsZero())
	assert.True(t, s.Subtotal().Equal(dec("89034")))

	top, err := c.TopProducts(ctx, cred, july, time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []entity.TopProduct{{Product: "Gaseosa", TotalBoxes: 40}}, top)

	b, ct, err := c.ExportInventory(ctx, cred)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", ct)
	assert.Contains(t, string(b), "Gaseosa,5")
}

func TestExportInventory_RespuestaDemasiadoGrandeNoSeTrunca(t *testing.T) {
	const limit = 8 << 20
	var size atomic.Int64
	size.Store(limit)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/exportar/inventario", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write(bytes.Repeat([]byte("x"), int(size.Load())))
	})
	c := newServer(t, mux, false)
	ctx := context.Background()

	b, _, err := c.ExportInventory(ctx, cred)
	require.NoError(t, err, "justo en el límite se acepta")
	assert.Len(t, b, limit)

	size.Store(limit + 1)
	b, _, err = c.ExportInventory(ctx, cred)
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrResponseTooLarge)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.Nil(t, b)
}
