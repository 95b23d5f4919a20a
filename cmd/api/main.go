package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"

	"github.com/jhoicas/inventario-ventas/docs"
	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dashboard"
	"github.com/jhoicas/inventario-ventas/internal/application/movements"
	"github.com/jhoicas/inventario-ventas/internal/application/prices"
	"github.com/jhoicas/inventario-ventas/internal/application/sales"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/backend"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventario-ventas/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/session"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/tracing"
	httpRouter "github.com/jhoicas/inventario-ventas/internal/interfaces/http"
	"github.com/jhoicas/inventario-ventas/pkg/config"
	"github.com/jhoicas/inventario-ventas/pkg/logger"
)

// @title                       Inventario Ventas BFF
// @version                     1.0
// @description                 BFF de la terminal de ventas sobre el backend de inventario.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <session_id> devuelto por /api/auth/login
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Msg("iniciando aplicación")

	// Trazas: solo si hay endpoint de Jaeger configurado.
	if cfg.Tracing.JaegerEndpoint != "" {
		tp, err := tracing.Init(cfg.App.Name, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar trazas")
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	var sessions repository.SessionRepository
	switch cfg.Session.Store {
	case "redis":
		rdb, err := session.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb)
	case "postgres":
		pool, err := session.NewPostgresPool(context.Background(), cfg.Postgres.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		store, err := session.NewPostgresStore(context.Background(), pool)
		if err != nil {
			log.Fatal().Err(err).Msg("tabla de sesiones")
		}
		sessions = store
	default:
		sessions = session.NewMemoryStore()
	}

	client := backend.NewClient(backend.Config{
		BaseURL:             cfg.Backend.BaseURL,
		Timeout:             cfg.Backend.Timeout(),
		PriceByPresentation: cfg.Backend.PriceByPresentation,
	}, log.Component("backend"))

	terminals := sales.NewRegistry(sales.Gateways{
		Catalog: client,
		Stock:   client,
		Price:   client,
		Sales:   client,
	}, metrics.SalesObserver{}, log.Component("sales"))

	authUC := auth.NewAuthUseCase(client, sessions, terminals, cfg.Session.TTL(), log.Component("auth"))
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go authUC.RunJanitor(janitorCtx, cfg.Session.SweepInterval())

	receiptUC := sales.NewReceiptUseCase(infrapdf.NewMarotoReceiptRenderer(cfg.App.Name))
	movementsUC := movements.NewUseCase(client, client, log.Component("movements"))
	pricesUC := prices.NewUseCase(client, log.Component("prices"))
	dashboardUC := dashboard.NewUseCase(client, log.Component("dashboard"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ventas BFF",
	}))
	app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "terminals": terminals.Len()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Terminals:   terminals,
		Receipts:    receiptUC,
		MovementsUC: movementsUC,
		PricesUC:    pricesUC,
		DashboardUC: dashboardUC,
		Log:         log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
