// Package sales contiene la terminal de ventas: selección dependiente de catálogo, control
// de stock, cálculo de líneas, carrito y envío protegido contra duplicados.
package sales

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/pricing"
	"github.com/jhoicas/inventario-ventas/internal/domain/stock"
)

// Gateways puertos del backend que usa la terminal.
type Gateways struct {
	Catalog ports.CatalogGateway
	Stock   ports.StockGateway
	Price   ports.PriceGateway
	Sales   ports.SaleGateway
}

// AddState habilitación de "agregar al carrito". Err es nil si está habilitado.
type AddState struct {
	Enabled bool
	Err     error
}

// Terminal venta en curso de una sesión.
type Terminal struct {
	cred      entity.Credentials
	seller    string
	expiresAt time.Time
	sales     ports.SaleGateway
	obs       Observer
	log       zerolog.Logger
	now       func() time.Time

	selector *Selector
	guard    *SubmissionGuard

	mu      sync.Mutex
	cart    *Cart
	receipt *entity.Receipt
}

// NewTerminal crea la terminal de la sesión. No consulta al backend hasta EnsureCatalog.
func NewTerminal(s *entity.Session, gw Gateways, obs Observer, log zerolog.Logger) *Terminal {
	if obs == nil {
		obs = nopObserver{}
	}
	cred := s.Credentials()
	l := log.With().Str("user_id", string(cred.UserID)).Logger()
	return &Terminal{
		cred:      cred,
		seller:    s.Email,
		expiresAt: s.ExpiresAt,
		sales:     gw.Sales,
		obs:       obs,
		log:       l,
		now:       time.Now,
		selector:  NewSelector(cred, gw, obs, l),
		guard:     NewSubmissionGuard(l),
		cart:      NewCart(),
	}
}

// EnsureCatalog carga el catálogo si todavía no está en memoria.
func (t *Terminal) EnsureCatalog(ctx context.Context) {
	if !t.selector.CatalogLoaded() {
		t.selector.LoadCatalog(ctx)
	}
}

// SelectFamily ver Selector.SelectFamily.
func (t *Terminal) SelectFamily(id entity.FamilyID) error {
	return t.selector.SelectFamily(id)
}

// SelectProduct ver Selector.SelectProduct.
func (t *Terminal) SelectProduct(ctx context.Context, id entity.ProductID) error {
	return t.selector.SelectProduct(ctx, id)
}

// SelectPresentation ver Selector.SelectPresentation.
func (t *Terminal) SelectPresentation(ctx context.Context, id entity.PresentationID) error {
	return t.selector.SelectPresentation(ctx, id)
}

// SetQuantity cajas y unidades sueltas de la línea a agregar.
func (t *Terminal) SetQuantity(boxes, units int) error {
	return t.selector.SetQuantity(boxes, units)
}

// SetDiscount porcentaje de descuento de la línea a agregar.
func (t *Terminal) SetDiscount(percent decimal.Decimal) error {
	return t.selector.SetDiscount(percent)
}

// EvaluateAdd decide si la selección permite agregar una línea. Se evalúa en cada lectura
// del estado, así que refleja siempre la cantidad y el stock actuales.
func EvaluateAdd(sel Selection) AddState {
	switch {
	case sel.Presentation == nil:
		return AddState{Err: fmt.Errorf("%w: seleccione familia, producto y presentación", domain.ErrSelectionIncomplete)}
	case sel.LoadingStock || sel.LoadingPrice:
		return AddState{Err: fmt.Errorf("%w: consultando stock y precio", domain.ErrSelectionIncomplete)}
	case sel.PriceErr != nil:
		return AddState{Err: sel.PriceErr}
	case !sel.Price.Available():
		return AddState{Err: domain.ErrPriceUnavailable}
	case sel.StockErr != nil:
		return AddState{Err: sel.StockErr}
	case sel.Stock == nil:
		return AddState{Err: domain.ErrStockUnavailable}
	}
	req := stock.Request{Boxes: sel.Boxes, Units: sel.Units, TrackUnits: sel.Units > 0}
	if !stock.Sufficient(req, sel.Stock) {
		return AddState{Err: fmt.Errorf("%w: disponibles %d cajas y %d unidades",
			domain.ErrStockExceeded, sel.Stock.Boxes, sel.Stock.Units)}
	}
	return AddState{Enabled: true}
}

// AddToCart calcula la línea de la selección actual y la agrega. Después limpia producto,
// presentación, cantidad y descuento; la familia se mantiene.
func (t *Terminal) AddToCart() (*entity.CartLine, error) {
	sel := t.selector.Snapshot()
	if st := EvaluateAdd(sel); !st.Enabled {
		return nil, st.Err
	}

	b, err := pricing.Calculate(pricing.LineInput{
		PriceWithTax:    sel.Price.PriceWithTax,
		Quantity:        sel.Boxes,
		DiscountPercent: sel.DiscountPercent,
		TaxRatePercent:  sel.Price.TaxRatePercent,
	})
	if err != nil {
		return nil, err
	}
	line := entity.CartLine{
		ID:               entity.LineID(uuid.NewString()),
		PresentationID:   sel.Presentation.ID,
		ProductID:        sel.Product.ID,
		FamilyName:       sel.Family.Name,
		PresentationName: sel.Presentation.Name,
		ProductName:      sel.Product.Name,
		QuantityBoxes:    sel.Boxes,
		QuantityUnits:    sel.Units,
		DiscountPercent:  sel.DiscountPercent,
		UnitPriceWithTax: sel.Price.PriceWithTax,
		GrossTotal:       b.Gross,
		DiscountAmount:   b.Discount,
		SubtotalExTax:    b.SubtotalExTax,
		TaxAmount:        b.Tax,
		TotalWithTax:     b.Net,
	}

	t.mu.Lock()
	if t.guard.Submitting() {
		t.mu.Unlock()
		return nil, domain.ErrSubmitInProgress
	}
	t.cart.AddLine(line)
	t.mu.Unlock()

	t.selector.ResetAfterAdd(sel.Generation)
	t.log.Debug().Str("line_id", string(line.ID)).Str("presentation_id", string(line.PresentationID)).
		Int("boxes", line.QuantityBoxes).Msg("línea agregada al carrito")
	return &line, nil
}

// RemoveLine quita una línea del carrito.
func (t *Terminal) RemoveLine(id entity.LineID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.guard.Submitting() {
		return domain.ErrSubmitInProgress
	}
	if !t.cart.RemoveLine(id) {
		return domain.ErrLineNotFound
	}
	return nil
}

// Submit envía el carrito al backend a través de la guarda. Si el backend acepta, las
// líneas enviadas salen del carrito y queda el comprobante. Si falla, el carrito queda
// intacto y el error envuelve ErrSubmissionFailed y el error del backend.
func (t *Terminal) Submit(ctx context.Context, description string) (SubmitResult, error) {
	description = strings.TrimSpace(description)

	t.mu.Lock()
	sale := t.cart.ToSubmission(description)
	lines := t.cart.Lines()
	t.mu.Unlock()

	res, err := t.guard.Submit(ctx, sale, func(ctx context.Context, sale entity.SaleSubmission, key string) error {
		if err := t.sales.RecordSale(ctx, t.cred, sale, key); err != nil {
			return err
		}
		t.mu.Lock()
		for _, l := range lines {
			t.cart.RemoveLine(l.ID)
		}
		t.receipt = &entity.Receipt{
			IdempotencyKey: key,
			Description:    description,
			Seller:         t.seller,
			Lines:          lines,
			Totals:         sumLines(lines),
			SubmittedAt:    t.now(),
		}
		t.mu.Unlock()
		return nil
	})
	t.obs.SubmitOutcome(string(res.Outcome))
	if err != nil {
		return res, fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
	}
	return res, nil
}

// Receipt comprobante de la última venta registrada.
func (t *Terminal) Receipt() (*entity.Receipt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.receipt == nil {
		return nil, domain.ErrNoReceipt
	}
	r := *t.receipt
	return &r, nil
}

// Discard abandona la venta en curso: vacía el carrito, limpia la selección y olvida la
// firma del último envío. El catálogo y el comprobante se conservan.
func (t *Terminal) Discard() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.guard.Submitting() {
		return domain.ErrSubmitInProgress
	}
	t.cart.Clear()
	t.guard.Reset()
	t.selector.Reset()
	return nil
}

// Close cancela cualquier consulta en curso.
func (t *Terminal) Close() {
	t.selector.Close()
}

// Expired indica si la sesión dueña de la terminal ya venció.
func (t *Terminal) Expired(now time.Time) bool {
	return !t.expiresAt.IsZero() && !now.Before(t.expiresAt)
}
