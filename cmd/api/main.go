package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/caja-api/internal/application/catalog"
	"github.com/jhoicas/caja-api/internal/application/inventory"
	"github.com/jhoicas/caja-api/internal/application/ports"
	"github.com/jhoicas/caja-api/internal/application/pos"
	"github.com/jhoicas/caja-api/internal/application/purchasing"
	"github.com/jhoicas/caja-api/internal/application/sales"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/internal/infrastructure/excel"
	"github.com/jhoicas/caja-api/internal/infrastructure/idgen"
	"github.com/jhoicas/caja-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/caja-api/internal/infrastructure/pdf"
	"github.com/jhoicas/caja-api/internal/infrastructure/postgres"
	"github.com/jhoicas/caja-api/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/caja-api/internal/interfaces/http"
	"github.com/jhoicas/caja-api/pkg/config"
	"github.com/jhoicas/caja-api/pkg/logger"
)

// repos agrupa los repositorios fuera de transacción y el TxRunner del backend elegido.
type repos struct {
	tx         inventory.TxRunner
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	customers  repository.CustomerRepository
	suppliers  repository.SupplierRepository
	inventory  repository.InventoryRepository
	movements  repository.StockMovementRepository
	sales      repository.SaleRepository
	returns    repository.SaleReturnRepository
	purchases  repository.PurchaseRepository
	debts      repository.CustomerDebtRepository
	close      func()
}

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
		Str("storage", cfg.Storage.Driver).
		Str("realtime", cfg.Realtime.Driver).
		Msg("iniciando aplicación")

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("aplicación finalizada con error")
		os.Exit(1)
	}
	log.Info().Msg("aplicación detenida")
}

// run arranca el servidor y bloquea hasta la señal de apagado. Los recursos
// abiertos se liberan antes de devolver, también cuando el arranque falla.
func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("almacenamiento: %w", err)
	}
	defer store.close()

	g, gctx := errgroup.WithContext(ctx)

	// Canal de difusión entre cajas: en memoria para un solo proceso, Redis para varios.
	var bus ports.EventBus
	switch cfg.Realtime.Driver {
	case "redis":
		redisBus, err := realtime.NewRedisBus(ctx, realtime.RedisConfig{
			Addr:     cfg.Realtime.RedisAddr,
			Password: cfg.Realtime.RedisPassword,
			DB:       cfg.Realtime.RedisDB,
			Channel:  cfg.Realtime.Channel,
		}, log)
		if err != nil {
			return fmt.Errorf("conexión a Redis: %w", err)
		}
		defer redisBus.Close()
		g.Go(func() error { return redisBus.Run(gctx) })
		bus = redisBus
	default:
		bus = realtime.NewHub()
	}

	numbers, err := idgen.NewSaleNumbers(cfg.Sales.SnowflakeNode, cfg.Sales.NumberPrefix)
	if err != nil {
		return fmt.Errorf("generador de números de venta: %w", err)
	}

	engine := inventory.NewStockEngine(log)
	notifier := inventory.NewNotifier(bus, log)

	inventoryUC := inventory.NewUseCase(
		store.tx, engine, notifier,
		store.products, store.warehouses, store.inventory, store.movements,
		excel.NewMovementExporter(), log,
	)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.inventory, store.products)
	salesUC := sales.NewUseCase(
		store.tx, engine, notifier,
		store.products, store.warehouses, store.customers,
		store.sales, store.returns, store.debts,
		numbers, infrapdf.NewReceiptGenerator(), log,
	)
	purchasingUC := purchasing.NewUseCase(
		store.tx, engine, notifier,
		store.products, store.warehouses, store.suppliers, store.purchases, log,
	)
	posSvc := pos.NewService(bus, store.products, store.warehouses, store.inventory, salesUC, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Second * 60,
		// Sin WriteTimeout: el flujo SSE de las cajas queda abierto.
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Caja API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		POS:           posSvc,
		Sales:         salesUC,
		Customers:     sales.NewCustomerUseCase(store.customers),
		Inventory:     inventoryUC,
		Replenishment: replenishmentUC,
		Purchasing:    purchasingUC,
		Suppliers:     purchasing.NewSupplierUseCase(store.suppliers),
		Products:      catalog.NewProductUseCase(store.products),
		Warehouses:    catalog.NewWarehouseUseCase(store.warehouses),
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
	})

	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		// Las sesiones abiertas se cierran antes que el servidor para cortar los flujos SSE.
		posSvc.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openStorage elige PostgreSQL o el almacenamiento en memoria según STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repos, error) {
	if cfg.Storage.Driver == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &repos{
			tx:         s,
			products:   s.Products(),
			warehouses: s.Warehouses(),
			customers:  s.Customers(),
			suppliers:  s.Suppliers(),
			inventory:  s.Inventory(),
			movements:  s.Movements(),
			sales:      s.Sales(),
			returns:    s.Returns(),
			purchases:  s.Purchases(),
			debts:      s.Debts(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &repos{
		tx:         postgres.NewTxRunner(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		customers:  postgres.NewCustomerRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		inventory:  postgres.NewInventoryRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		sales:      postgres.NewSaleRepository(pool),
		returns:    postgres.NewSaleReturnRepository(pool),
		purchases:  postgres.NewPurchaseRepository(pool),
		debts:      postgres.NewCustomerDebtRepository(pool),
		close:      pool.Close,
	}, nil
}
