package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/purchasing"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (lecturas y validaciones fuera de tx).
	movementRepo := postgres.NewMovementRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	siteRepo := postgres.NewSiteRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	lowStockRepo := postgres.NewLowStockRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	movementsUC := inventory.NewRegisterMovementUseCase(txRunner, siteRepo, itemRepo)
	writeOffUC := inventory.NewWriteOffUseCase(txRunner, siteRepo, itemRepo)
	reorderUC := inventory.NewReorderEvaluatorUseCase(txRunner, siteRepo, itemRepo, lowStockRepo, log)
	kardexUC := inventory.NewKardexUseCase(movementRepo, siteRepo, itemRepo)
	policyUC := inventory.NewPolicyUseCase(itemRepo)
	receiveUC := inventory.NewReceiveOrderUseCase(txRunner, itemRepo)
	ordersUC := purchasing.NewOrderUseCase(orderRepo, movementRepo, siteRepo, itemRepo, supplierRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	// El archivo se genera desde las anotaciones godoc de los handlers:
	//   swag init -g cmd/api/main.go --output docs --outputTypes json
	// Si no existe, la API arranca sin la UI.
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Kardex API",
		}))
	} else {
		log.Warn().Msg("docs/swagger.json no encontrado; Swagger UI deshabilitada (generar con swag init)")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Movements: movementsUC,
		WriteOff:  writeOffUC,
		Reorder:   reorderUC,
		Kardex:    kardexUC,
		Policy:    policyUC,
		Receive:   receiveUC,
		Orders:    ordersUC,
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
