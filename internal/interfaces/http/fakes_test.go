package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dashboard"
	"github.com/jhoicas/inventario-ventas/internal/application/movements"
	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/application/prices"
	"github.com/jhoicas/inventario-ventas/internal/application/sales"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/session"
	apphttp "github.com/jhoicas/inventario-ventas/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-ventas/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Backend simulado
// ──────────────────────────────────────────────────────────────────────────────

type fakeBackend struct {
	mu        sync.Mutex
	token     string
	saleErr   error
	sales     []entity.SaleSubmission
	movements []entity.Movement
	assigned  []entity.PriceAssignment
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (*ports.LoginResult, error) {
	if password != "clave" {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, &domain.RemoteError{Status: 401, Message: "Credenciales inválidas"})
	}
	return &ports.LoginResult{Token: f.token, Email: email}, nil
}

func (f *fakeBackend) LoadCatalog(context.Context, entity.Credentials) (entity.Catalog, error) {
	return entity.Catalog{
		Families: []entity.Family{{ID: "F1", Name: "Bebidas"}},
		Products: []entity.Product{{ID: "P1", Name: "Gaseosa", FamilyID: "F1", FamilyName: "Bebidas"}},
	}, nil
}

func (f *fakeBackend) Presentations(_ context.Context, _ entity.Credentials, id entity.ProductID) ([]entity.Presentation, error) {
	if id != "P1" {
		return []entity.Presentation{}, nil
	}
	return []entity.Presentation{{ID: "A", ProductID: "P1", Name: "Caja x24"}}, nil
}

func (f *fakeBackend) Stock(_ context.Context, _ entity.Credentials, id entity.PresentationID) (*entity.StockLevel, error) {
	if id != "A" {
		return nil, domain.ErrNotFound
	}
	return &entity.StockLevel{Boxes: 5}, nil
}

func (f *fakeBackend) Quote(_ context.Context, _ entity.Credentials, _ entity.ProductID, id entity.PresentationID) (*entity.PriceQuote, error) {
	if id != "A" {
		return nil, domain.ErrPriceUnavailable
	}
	return &entity.PriceQuote{
		BasePrice:      decimal.NewFromInt(10000),
		TaxRatePercent: decimal.NewFromInt(19),
		PriceWithTax:   decimal.NewFromInt(11900),
	}, nil
}

func (f *fakeBackend) RecordSale(_ context.Context, _ entity.Credentials, sale entity.SaleSubmission, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saleErr != nil {
		return f.saleErr
	}
	f.sales = append(f.sales, sale)
	return nil
}

func (f *fakeBackend) RegisterMovement(_ context.Context, _ entity.Credentials, m entity.Movement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movements = append(f.movements, m)
	return nil
}

func (f *fakeBackend) Movements(context.Context, entity.Credentials, entity.MovementFilter) ([]entity.MovementRecord, error) {
	return []entity.MovementRecord{{ID: "1", Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Type: entity.MovementEntry, Product: "Gaseosa", Boxes: 3}}, nil
}

func (f *fakeBackend) ActivePrices(context.Context, entity.Credentials) ([]entity.ProductPrice, error) {
	return []entity.ProductPrice{{ProductID: "P1", ProductName: "Gaseosa", BasePrice: decimal.NewFromInt(10000), IVAApplicable: true}}, nil
}

func (f *fakeBackend) AssignPrice(_ context.Context, _ entity.Credentials, a entity.PriceAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned = append(f.assigned, a)
	return nil
}

func (f *fakeBackend) Inventory(context.Context, entity.Credentials) ([]entity.InventoryRow, error) {
	return []entity.InventoryRow{{Product: "Gaseosa", Family: "Bebidas", Boxes: 5}}, nil
}

func (f *fakeBackend) SalesSummary(context.Context, entity.Credentials, time.Time) (*entity.SalesSummary, error) {
	return &entity.SalesSummary{Net: decimal.NewFromInt(100000)}, nil
}

func (f *fakeBackend) TopProducts(context.Context, entity.Credentials, time.Time, time.Time) ([]entity.TopProduct, error) {
	return []entity.TopProduct{{Product: "Gaseosa", TotalBoxes: 12}}, nil
}

func (f *fakeBackend) ExportInventory(context.Context, entity.Credentials) ([]byte, string, error) {
	return []byte("producto,cajas\nGaseosa,5\n"), "text/csv", nil
}

func (f *fakeBackend) recordedSales() []entity.SaleSubmission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.SaleSubmission(nil), f.sales...)
}

type fakeRenderer struct{}

func (fakeRenderer) Render(*entity.Receipt) ([]byte, error) { return []byte("%PDF-1.4 comprobante"), nil }

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	app     *fiber.App
	backend *fakeBackend
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tok, err := pkgjwt.Generate("secreto-del-backend", "7", "vendedor@tienda.co", "backend", 60)
	require.NoError(t, err)

	f := &fakeBackend{token: tok}
	log := zerolog.Nop()
	registry := sales.NewRegistry(sales.Gateways{Catalog: f, Stock: f, Price: f, Sales: f}, nil, log)
	authUC := auth.NewAuthUseCase(f, session.NewMemoryStore(), registry, time.Hour, log)

	app := fiber.New()
	app.Use(apphttp.MetricsMiddleware())
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		Terminals:   registry,
		Receipts:    sales.NewReceiptUseCase(fakeRenderer{}),
		MovementsUC: movements.NewUseCase(f, f, log),
		PricesUC:    prices.NewUseCase(f, log),
		DashboardUC: dashboard.NewUseCase(f, log),
		Log:         log,
	})
	return &testServer{app: app, backend: f}
}

// call lanza la petición con el Bearer indicado (vacío = sin cabecera) y body JSON opcional.
func (s *testServer) call(t *testing.T, method, path, sessionID string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("Authorization", "Bearer "+sessionID)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	resp := s.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "vendedor@tienda.co", "password": "clave"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		SessionID string `json:"session_id"`
	}
	decode(t, resp, &out)
	require.NotEmpty(t, out.SessionID)
	return out.SessionID
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
