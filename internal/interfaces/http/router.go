package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stocktrace-api/internal/application/analytics"
	"github.com/jhoicas/stocktrace-api/internal/application/auth"
	"github.com/jhoicas/stocktrace-api/internal/application/inventory"
	"github.com/jhoicas/stocktrace-api/internal/application/usecase"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	DocumentUC   *inventory.DocumentUseCase
	ProjectionUC *inventory.ProjectionUseCase
	PDFUC        *inventory.PDFUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Warehouses y ubicaciones
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses := protected.Group("/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)
	warehouses.Delete("/:id", adminOnly, warehouseHandler.Delete)
	warehouses.Get("/:id/locations", warehouseHandler.ListLocations)

	locations := protected.Group("/locations")
	locations.Post("/", adminOnly, warehouseHandler.CreateLocation)
	locations.Get("/:id", warehouseHandler.GetLocation)
	locations.Put("/:id", adminOnly, warehouseHandler.UpdateLocation)
	locations.Delete("/:id", adminOnly, warehouseHandler.DeleteLocation)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Documentos: mismas rutas para los cuatro tipos
	for prefix, docType := range map[string]entity.DocType{
		"/receipts":    entity.DocTypeReceipt,
		"/deliveries":  entity.DocTypeDelivery,
		"/transfers":   entity.DocTypeTransfer,
		"/adjustments": entity.DocTypeAdjustment,
	} {
		h := NewDocumentHandler(docType, deps.DocumentUC, deps.PDFUC)
		g := protected.Group(prefix)
		g.Get("/", h.List)
		g.Post("/", h.Create)
		g.Get("/:id", h.Get)
		g.Put("/:id", h.Update)
		g.Post("/:id/confirm", adminOnly, h.Confirm)
		g.Get("/:id/pdf", h.PDF)
	}

	// Lecturas de inventario
	inventoryHandler := NewInventoryHandler(deps.ProjectionUC)
	protected.Get("/stock", inventoryHandler.CurrentStock)
	protected.Get("/stock/low", inventoryHandler.LowStock)
	protected.Get("/movements", inventoryHandler.MovementHistory)
	protected.Get("/ledger", inventoryHandler.Ledger)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard := protected.Group("/dashboard")
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/risk-alerts", dashboardHandler.GetRiskAlerts)
}
