package sales_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/application/sales"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// ─── Backend simulado ──────────────────────────────────────────────────────────

type fakeBackend struct {
	mu sync.Mutex

	catalog       entity.Catalog
	catalogErr    error
	presentations map[entity.ProductID][]entity.Presentation
	stock         map[entity.PresentationID]*entity.StockLevel
	stockErr      map[entity.PresentationID]error
	prices        map[entity.PresentationID]*entity.PriceQuote
	priceErr      map[entity.PresentationID]error

	// stockGate bloquea la consulta de stock de esa presentación hasta que se cierre el
	// canal. Ignora la cancelación, como un backend lento que responde tarde.
	stockGate    map[entity.PresentationID]chan struct{}
	stockStarted chan entity.PresentationID

	saleGate  chan struct{}
	saleErr   error
	saleCalls []recordedSale

	catalogCalls int
}

type recordedSale struct {
	sale entity.SaleSubmission
	key  string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		catalog: entity.Catalog{
			Families: []entity.Family{
				{ID: "F1", Name: "Bebidas"},
				{ID: "F2", Name: "Aseo"},
			},
			Products: []entity.Product{
				{ID: "P1", Name: "Gaseosa", FamilyID: "F1", FamilyName: "Bebidas"},
				{ID: "P2", Name: "Jugo", FamilyID: "F1", FamilyName: "Bebidas"},
				{ID: "P3", Name: "Jabón", FamilyID: "F2", FamilyName: "Aseo"},
			},
		},
		presentations: map[entity.ProductID][]entity.Presentation{
			"P1": {{ID: "A", Name: "Caja x24"}, {ID: "B", Name: "Caja x12"}},
			"P2": {{ID: "C", Name: "Caja x6"}},
			"P3": {{ID: "D", Name: "Caja x10"}},
		},
		stock: map[entity.PresentationID]*entity.StockLevel{
			"A": {Boxes: 5, Units: 0},
			"B": {Boxes: 10, Units: 3},
			"C": {Boxes: 8, Units: 0},
			"D": {Boxes: 2, Units: 0},
		},
		stockErr: map[entity.PresentationID]error{},
		prices: map[entity.PresentationID]*entity.PriceQuote{
			"A": quote("10000", "19", "11900"),
			"B": quote("5042", "19", "6000"),
		},
		priceErr: map[entity.PresentationID]error{
			"C": domain.ErrPriceUnavailable,
			"D": errors.New("connection reset"),
		},
		stockGate:    map[entity.PresentationID]chan struct{}{},
		stockStarted: make(chan entity.PresentationID, 16),
	}
}

func quote(base, rate, withTax string) *entity.PriceQuote {
	return &entity.PriceQuote{
		BasePrice:      decimal.RequireFromString(base),
		TaxRatePercent: decimal.RequireFromString(rate),
		PriceWithTax:   decimal.RequireFromString(withTax),
	}
}

func (f *fakeBackend) LoadCatalog(_ context.Context, _ entity.Credentials) (entity.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogCalls++
	if f.catalogErr != nil {
		return entity.Catalog{}, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeBackend) Presentations(_ context.Context, _ entity.Credentials, id entity.ProductID) ([]entity.Presentation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.presentations[id]
	return append([]entity.Presentation(nil), list...), nil
}

func (f *fakeBackend) Stock(_ context.Context, _ entity.Credentials, id entity.PresentationID) (*entity.StockLevel, error) {
	f.mu.Lock()
	gate := f.stockGate[id]
	f.mu.Unlock()
	select {
	case f.stockStarted <- id:
	default:
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.stockErr[id]; err != nil {
		return nil, err
	}
	lvl, ok := f.stock[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *lvl
	return &cp, nil
}

func (f *fakeBackend) Quote(_ context.Context, _ entity.Credentials, _ entity.ProductID, id entity.PresentationID) (*entity.PriceQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.priceErr[id]; err != nil {
		return nil, err
	}
	q, ok := f.prices[id]
	if !ok {
		return nil, domain.ErrPriceUnavailable
	}
	cp := *q
	return &cp, nil
}

func (f *fakeBackend) RecordSale(_ context.Context, _ entity.Credentials, sale entity.SaleSubmission, key string) error {
	f.mu.Lock()
	gate := f.saleGate
	f.saleCalls = append(f.saleCalls, recordedSale{sale: sale, key: key})
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saleErr
}

func (f *fakeBackend) sales() []recordedSale {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedSale(nil), f.saleCalls...)
}

func (f *fakeBackend) gateways() sales.Gateways {
	return sales.Gateways{Catalog: f, Stock: f, Price: f, Sales: f}
}

// ─── Observador ────────────────────────────────────────────────────────────────

type countingObserver struct {
	mu       sync.Mutex
	stale    map[string]int
	outcomes map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{stale: map[string]int{}, outcomes: map[string]int{}}
}

func (o *countingObserver) StaleResponse(kind string) {
	o.mu.Lock()
	o.stale[kind]++
	o.mu.Unlock()
}

func (o *countingObserver) SubmitOutcome(outcome string) {
	o.mu.Lock()
	o.outcomes[outcome]++
	o.mu.Unlock()
}

func (o *countingObserver) staleCount(kind string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stale[kind]
}

// ─── Helpers ───────────────────────────────────────────────────────────────────

var testSession = &entity.Session{ID: "sess-1", UserID: "7", Email: "vendedor@tienda.co", Token: "tok"}

func newTerminal(t *testing.T, f *fakeBackend, obs sales.Observer) *sales.Terminal {
	t.Helper()
	term := sales.NewTerminal(testSession, f.gateways(), obs, zerolog.Nop())
	term.EnsureCatalog(context.Background())
	t.Cleanup(term.Close)
	return term
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
