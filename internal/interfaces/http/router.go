package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dashboard"
	"github.com/jhoicas/inventario-ventas/internal/application/movements"
	"github.com/jhoicas/inventario-ventas/internal/application/prices"
	"github.com/jhoicas/inventario-ventas/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Terminals   *sales.Registry
	Receipts    *sales.ReceiptUseCase
	MovementsUC *movements.UseCase
	PricesUC    *prices.UseCase
	DashboardUC *dashboard.UseCase
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireSession := AuthMiddleware(deps.AuthUC)

	// Auth (login público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", requireSession, authHandler.Logout)

	// Rutas protegidas (requieren Bearer con el session_id)
	protected := api.Group("/", requireSession)

	// Terminal de ventas
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.Terminals, deps.Receipts, deps.Log)
	salesGroup.Get("/state", salesHandler.State)
	salesGroup.Put("/selection/family", salesHandler.SelectFamily)
	salesGroup.Put("/selection/product", salesHandler.SelectProduct)
	salesGroup.Put("/selection/presentation", salesHandler.SelectPresentation)
	salesGroup.Put("/quantity", salesHandler.SetQuantity)
	salesGroup.Put("/discount", salesHandler.SetDiscount)
	salesGroup.Post("/cart/lines", salesHandler.AddLine)
	salesGroup.Delete("/cart/lines/:id", salesHandler.RemoveLine)
	salesGroup.Post("/submit", salesHandler.Submit)
	salesGroup.Get("/receipt", salesHandler.Receipt)
	salesGroup.Delete("/", salesHandler.Discard)

	// Movimientos de inventario
	movementsGroup := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementsUC, deps.Log)
	movementsGroup.Post("/", movementHandler.Register)
	movementsGroup.Get("/", movementHandler.List)

	// Precios
	pricesGroup := protected.Group("/prices")
	priceHandler := NewPriceHandler(deps.PricesUC, deps.Log)
	pricesGroup.Get("/", priceHandler.List)
	pricesGroup.Post("/", priceHandler.Assign)

	// Dashboard y exportación
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Log)
	protected.Get("/dashboard", dashboardHandler.Overview)
	protected.Get("/dashboard/sales-summary", dashboardHandler.SalesSummary)
	protected.Get("/dashboard/top-products", dashboardHandler.TopProducts)
	protected.Get("/inventory/export", dashboardHandler.ExportInventory)
}
