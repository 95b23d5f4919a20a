package sales

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// Selection copia del estado del selector en un instante.
type Selection struct {
	// Generation cambia con cada selección; sirve para detectar que la selección cambió.
	Generation uint64

	Catalog       *entity.Catalog
	Family        *entity.Family
	Products      []entity.Product
	Product       *entity.Product
	Presentations []entity.Presentation
	Presentation  *entity.Presentation

	LoadingPresentations bool
	LoadingStock         bool
	LoadingPrice         bool

	Stock *entity.StockLevel
	Price *entity.PriceQuote

	CatalogErr       error
	PresentationsErr error
	StockErr         error
	PriceErr         error

	Boxes           int
	Units           int
	DiscountPercent decimal.Decimal
}

// Loading indica si hay alguna consulta en curso.
func (s Selection) Loading() bool {
	return s.LoadingPresentations || s.LoadingStock || s.LoadingPrice
}

// Selector selección dependiente familia → producto → presentación.
//
// Cada selección incrementa la generación y cancela la consulta anterior. Una respuesta
// que llega con una generación vieja se descarta: nunca pisa el estado de la selección nueva.
// El mutex no se mantiene durante las llamadas al backend.
type Selector struct {
	cred    entity.Credentials
	catalog ports.CatalogGateway
	stock   ports.StockGateway
	price   ports.PriceGateway
	obs     Observer
	log     zerolog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc

	cat        *entity.Catalog
	catalogErr error

	family        *entity.Family
	products      []entity.Product
	product       *entity.Product
	presentations []entity.Presentation
	presentation  *entity.Presentation

	loadingPresentations bool
	loadingStock         bool
	loadingPrice         bool
	presentationsErr     error

	stockLevel *entity.StockLevel
	stockErr   error
	quote      *entity.PriceQuote
	priceErr   error

	boxes    int
	units    int
	discount decimal.Decimal
}

// fetchJob consulta lanzada para una generación concreta.
type fetchJob struct {
	gen            uint64
	ctx            context.Context
	cancel         context.CancelFunc
	productID      entity.ProductID
	presentationID entity.PresentationID
}

// NewSelector crea el selector para las credenciales de una sesión.
func NewSelector(cred entity.Credentials, gw Gateways, obs Observer, log zerolog.Logger) *Selector {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Selector{
		cred:     cred,
		catalog:  gw.Catalog,
		stock:    gw.Stock,
		price:    gw.Price,
		obs:      obs,
		log:      log,
		boxes:    1,
		discount: decimal.Zero,
	}
}

// CatalogLoaded indica si ya hay catálogo en memoria.
func (s *Selector) CatalogLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat != nil
}

// LoadCatalog carga familias y productos. Un fallo queda como aviso en el estado y se
// reintenta en la próxima llamada.
func (s *Selector) LoadCatalog(ctx context.Context) {
	cat, err := s.catalog.LoadCatalog(ctx, s.cred)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Warn().Err(err).Msg("error al cargar el catálogo")
		s.catalogErr = fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		return
	}
	s.cat = &cat
	s.catalogErr = nil
	if s.family != nil {
		s.products = cat.ProductsOf(s.family.ID)
	}
}

// SelectFamily cambia la familia. Limpia producto, presentación, stock, precio y descuento.
// No consulta al backend: los productos salen del catálogo en memoria.
func (s *Selector) SelectFamily(id entity.FamilyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cat == nil {
		return domain.ErrCatalogUnavailable
	}
	fam, ok := s.cat.Family(id)
	if !ok {
		return fmt.Errorf("%w: familia %q", domain.ErrInvalidSelection, id)
	}
	s.supersedeLocked()
	s.family = &fam
	s.products = s.cat.ProductsOf(id)
	s.clearProductLocked()
	s.discount = decimal.Zero
	return nil
}

// SelectProduct cambia el producto y consulta sus presentaciones. Si hay una sola se
// selecciona automáticamente y se consultan su stock y precio.
// Solo devuelve error si el producto no pertenece a la familia seleccionada; los fallos del
// backend quedan como aviso en el estado.
func (s *Selector) SelectProduct(ctx context.Context, id entity.ProductID) error {
	s.mu.Lock()
	if s.family == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: seleccione una familia", domain.ErrSelectionIncomplete)
	}
	prod, ok := findProduct(s.products, id)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: producto %q", domain.ErrInvalidSelection, id)
	}
	s.supersedeLocked()
	s.clearProductLocked()
	s.product = &prod
	s.loadingPresentations = true
	job := s.newJobLocked(ctx)
	s.mu.Unlock()

	list, err := s.catalog.Presentations(job.ctx, s.cred, id)
	job.cancel()

	s.mu.Lock()
	if job.gen != s.gen {
		s.mu.Unlock()
		s.discard("presentations", job.gen)
		return nil
	}
	s.loadingPresentations = false
	if err != nil {
		s.log.Warn().Err(err).Str("product_id", string(id)).Msg("error al cargar presentaciones")
		s.presentationsErr = fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		s.mu.Unlock()
		return nil
	}
	for i := range list {
		list[i].ProductID = id
	}
	s.presentations = list
	if len(list) != 1 {
		s.mu.Unlock()
		return nil
	}
	next := s.beginPresentationLocked(ctx, list[0])
	s.mu.Unlock()

	s.fetchStockAndPrice(next)
	return nil
}

// SelectPresentation cambia la presentación y consulta stock y precio en paralelo.
func (s *Selector) SelectPresentation(ctx context.Context, id entity.PresentationID) error {
	s.mu.Lock()
	if s.product == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: seleccione un producto", domain.ErrSelectionIncomplete)
	}
	p, ok := findPresentation(s.presentations, id)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: presentación %q", domain.ErrInvalidSelection, id)
	}
	job := s.beginPresentationLocked(ctx, p)
	s.mu.Unlock()

	s.fetchStockAndPrice(job)
	return nil
}

// SetQuantity cantidad pedida: cajas >= 1 y unidades sueltas >= 0.
func (s *Selector) SetQuantity(boxes, units int) error {
	if boxes < 1 {
		return fmt.Errorf("%w: la cantidad de cajas debe ser al menos 1", domain.ErrInvalidInput)
	}
	if units < 0 {
		return fmt.Errorf("%w: las unidades no pueden ser negativas", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	s.boxes, s.units = boxes, units
	s.mu.Unlock()
	return nil
}

// SetDiscount porcentaje de descuento de la línea, entre 0 y 100.
func (s *Selector) SetDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: el descuento debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	s.discount = percent
	s.mu.Unlock()
	return nil
}

// ResetAfterAdd deja la familia y limpia el resto después de agregar una línea.
// Si la selección cambió desde gen no toca nada.
func (s *Selector) ResetAfterAdd(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.resetLocked()
}

// Reset limpia producto, presentación, cantidad y descuento. La familia se mantiene.
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Close cancela la consulta en curso.
func (s *Selector) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
}

// Snapshot copia el estado actual.
func (s *Selector) Snapshot() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := Selection{
		Generation:           s.gen,
		Catalog:              s.cat,
		Family:               s.family,
		Products:             append([]entity.Product(nil), s.products...),
		Product:              s.product,
		Presentations:        append([]entity.Presentation(nil), s.presentations...),
		Presentation:         s.presentation,
		LoadingPresentations: s.loadingPresentations,
		LoadingStock:         s.loadingStock,
		LoadingPrice:         s.loadingPrice,
		CatalogErr:           s.catalogErr,
		PresentationsErr:     s.presentationsErr,
		StockErr:             s.stockErr,
		PriceErr:             s.priceErr,
		Boxes:                s.boxes,
		Units:                s.units,
		DiscountPercent:      s.discount,
	}
	if s.stockLevel != nil {
		lvl := *s.stockLevel
		sel.Stock = &lvl
	}
	if s.quote != nil {
		q := *s.quote
		sel.Price = &q
	}
	return sel
}

// ─── internos (requieren s.mu) ─────────────────────────────────────────────────

// supersedeLocked invalida la generación actual y cancela su consulta.
func (s *Selector) supersedeLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Selector) newJobLocked(ctx context.Context) fetchJob {
	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	job := fetchJob{gen: s.gen, ctx: fctx, cancel: cancel}
	if s.product != nil {
		job.productID = s.product.ID
	}
	if s.presentation != nil {
		job.presentationID = s.presentation.ID
	}
	return job
}

func (s *Selector) resetLocked() {
	s.supersedeLocked()
	s.clearProductLocked()
	s.boxes, s.units = 1, 0
	s.discount = decimal.Zero
}

func (s *Selector) clearProductLocked() {
	s.product = nil
	s.presentations = nil
	s.presentationsErr = nil
	s.loadingPresentations = false
	s.clearPresentationLocked()
}

func (s *Selector) clearPresentationLocked() {
	s.presentation = nil
	s.stockLevel = nil
	s.stockErr = nil
	s.quote = nil
	s.priceErr = nil
	s.loadingStock = false
	s.loadingPrice = false
}

func (s *Selector) beginPresentationLocked(ctx context.Context, p entity.Presentation) fetchJob {
	s.supersedeLocked()
	s.clearPresentationLocked()
	s.presentation = &p
	s.loadingStock = true
	s.loadingPrice = true
	return s.newJobLocked(ctx)
}

// ─── consultas de stock y precio ───────────────────────────────────────────────

// fetchStockAndPrice lanza ambas consultas a la vez; cada una actualiza solo su parte del
// estado al terminar. Retorna cuando las dos terminaron.
func (s *Selector) fetchStockAndPrice(job fetchJob) {
	defer job.cancel()

	var g errgroup.Group
	g.Go(func() error {
		lvl, err := s.stock.Stock(job.ctx, s.cred, job.presentationID)
		s.applyStock(job, lvl, err)
		return nil
	})
	g.Go(func() error {
		q, err := s.price.Quote(job.ctx, s.cred, job.productID, job.presentationID)
		s.applyPrice(job, q, err)
		return nil
	})
	_ = g.Wait()
}

func (s *Selector) applyStock(job fetchJob, lvl *entity.StockLevel, err error) {
	s.mu.Lock()
	if job.gen != s.gen {
		s.mu.Unlock()
		s.discard("stock", job.gen)
		return
	}
	defer s.mu.Unlock()

	s.loadingStock = false
	switch {
	case err != nil:
		s.stockLevel = nil
		if errors.Is(err, domain.ErrNotFound) {
			s.stockErr = fmt.Errorf("%w: sin existencias registradas para la presentación", domain.ErrStockUnavailable)
		} else {
			s.stockErr = fmt.Errorf("%w: %v", domain.ErrStockUnavailable, err)
		}
		s.log.Warn().Err(err).Str("presentation_id", string(job.presentationID)).Msg("error al consultar stock")
	case lvl == nil:
		s.stockLevel = nil
		s.stockErr = domain.ErrStockUnavailable
	default:
		cp := *lvl
		s.stockLevel = &cp
		s.stockErr = nil
	}
}

func (s *Selector) applyPrice(job fetchJob, q *entity.PriceQuote, err error) {
	s.mu.Lock()
	if job.gen != s.gen {
		s.mu.Unlock()
		s.discard("price", job.gen)
		return
	}
	defer s.mu.Unlock()

	s.loadingPrice = false
	switch {
	case errors.Is(err, domain.ErrPriceUnavailable):
		s.quote = nil
		s.priceErr = domain.ErrPriceUnavailable
		s.log.Info().Str("presentation_id", string(job.presentationID)).Msg("presentación sin precio asignado")
	case err != nil:
		s.quote = nil
		s.priceErr = fmt.Errorf("%w: %v", domain.ErrPriceFetch, err)
		s.log.Warn().Err(err).Str("presentation_id", string(job.presentationID)).Msg("error al consultar precio")
	case !q.Available():
		s.quote = nil
		s.priceErr = domain.ErrPriceUnavailable
	default:
		cp := *q
		s.quote = &cp
		s.priceErr = nil
	}
}

func (s *Selector) discard(kind string, gen uint64) {
	s.obs.StaleResponse(kind)
	s.log.Debug().Str("kind", kind).Uint64("generation", gen).Msg("respuesta descartada: la selección cambió")
}

func findProduct(list []entity.Product, id entity.ProductID) (entity.Product, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

func findPresentation(list []entity.Presentation, id entity.PresentationID) (entity.Presentation, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Presentation{}, false
}
