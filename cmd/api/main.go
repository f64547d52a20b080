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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/stocktrace-api/docs"
	appanalytics "github.com/jhoicas/stocktrace-api/internal/application/analytics"
	"github.com/jhoicas/stocktrace-api/internal/application/auth"
	"github.com/jhoicas/stocktrace-api/internal/application/inventory"
	"github.com/jhoicas/stocktrace-api/internal/application/usecase"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
	"github.com/jhoicas/stocktrace-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stocktrace-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stocktrace-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stocktrace-api/internal/interfaces/http"
	"github.com/jhoicas/stocktrace-api/pkg/config"
	"github.com/jhoicas/stocktrace-api/pkg/logger"
)

// @title                       StockTrace API
// @version                     1.0
// @description                 Libro de inventario: documentos, movimientos y stock por ubicación.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: el login no podrá emitir tokens")
	}

	ctx := context.Background()

	// Ledger Store: PostgreSQL o memoria (desarrollo y demos)
	var (
		txRunner repository.TxRunner
		repos    repository.TxRepos
		userRepo repository.UserRepository
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		txRunner, repos, userRepo = store, store.Repos(), store.Users()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(pool, log.Zerolog()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner, repos, userRepo = postgres.NewTxRunner(pool), postgres.Repos(pool), postgres.NewUserRepository(pool)
	}

	documentUC := inventory.NewDocumentUseCase(txRunner, repos, log)
	projectionUC := inventory.NewProjectionUseCase(repos.Products, repos.Movements, repos.Stock)
	pdfUC := inventory.NewPDFUseCase(repos, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	productUC := usecase.NewProductUseCase(txRunner, repos)
	warehouseUC := usecase.NewWarehouseUseCase(txRunner, repos)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.Products, repos.Documents, repos.Movements, repos.Stock)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if swaggerFile, err := resolveSwaggerFile(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "StockTrace API",
		}))
	} else {
		log.Warn().Err(err).Msg("swagger deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		WarehouseUC:  warehouseUC,
		DocumentUC:   documentUC,
		ProjectionUC: projectionUC,
		PDFUC:        pdfUC,
		DashboardUC:  dashboardUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		addr := cfg.HTTP.Addr()
		log.Info().Str("addr", addr).Msg("servidor HTTP escuchando")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("servidor detenido")
}

// resolveSwaggerFile devuelve path si existe; si no, vuelca la especificación registrada
// por el paquete docs a un archivo temporal (binario desplegado sin el directorio docs/).
func resolveSwaggerFile(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	doc, err := swag.ReadDoc()
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "stocktrace-swagger-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(doc); err != nil {
		return "", err
	}
	return f.Name(), nil
}
