package ports

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// Puertos de salida hacia el backend REST de inventario. Cualquier adaptador (HTTP, mock)
// implementa estas interfaces; la aplicación solo conoce el contrato.
// Todas las llamadas reciben las credenciales de la sesión de forma explícita.

// LoginResult respuesta del backend a un login exitoso. UserID puede venir vacío; en
// ese caso se toma del token.
type LoginResult struct {
	Token  string
	UserID entity.UserID
	Email  string
}

// AuthGateway login contra el backend.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// CatalogGateway familias, productos y presentaciones.
type CatalogGateway interface {
	// LoadCatalog trae familias y productos y resuelve la familia de cada producto a su id.
	LoadCatalog(ctx context.Context, cred entity.Credentials) (entity.Catalog, error)
	Presentations(ctx context.Context, cred entity.Credentials, productID entity.ProductID) ([]entity.Presentation, error)
}

// StockGateway existencias puntuales por (usuario, presentación).
// Sin registro devuelve domain.ErrNotFound.
type StockGateway interface {
	Stock(ctx context.Context, cred entity.Credentials, presentationID entity.PresentationID) (*entity.StockLevel, error)
}

// PriceGateway precio activo de una presentación.
// Sin precio (null o 0) devuelve domain.ErrPriceUnavailable; fallas de red, domain.ErrPriceFetch.
type PriceGateway interface {
	Quote(ctx context.Context, cred entity.Credentials, productID entity.ProductID, presentationID entity.PresentationID) (*entity.PriceQuote, error)
}

// SaleGateway registro de ventas. idempotencyKey viaja fuera del cuerpo (cabecera).
type SaleGateway interface {
	RecordSale(ctx context.Context, cred entity.Credentials, sale entity.SaleSubmission, idempotencyKey string) error
}

// MovementGateway entradas y salidas de inventario.
type MovementGateway interface {
	RegisterMovement(ctx context.Context, cred entity.Credentials, m entity.Movement) error
	Movements(ctx context.Context, cred entity.Credentials, f entity.MovementFilter) ([]entity.MovementRecord, error)
}

// PriceAdminGateway pantalla de precios.
type PriceAdminGateway interface {
	ActivePrices(ctx context.Context, cred entity.Credentials) ([]entity.ProductPrice, error)
	AssignPrice(ctx context.Context, cred entity.Credentials, a entity.PriceAssignment) error
}

// DashboardGateway reportes de solo lectura.
type DashboardGateway interface {
	Inventory(ctx context.Context, cred entity.Credentials) ([]entity.InventoryRow, error)
	SalesSummary(ctx context.Context, cred entity.Credentials, month time.Time) (*entity.SalesSummary, error)
	TopProducts(ctx context.Context, cred entity.Credentials, from, to time.Time) ([]entity.TopProduct, error)
	// ExportInventory devuelve el archivo tal como lo genera el backend y su content-type.
	ExportInventory(ctx context.Context, cred entity.Credentials) ([]byte, string, error)
}
