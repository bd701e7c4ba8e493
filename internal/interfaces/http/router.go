package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/drb-alger/gestion-magasin/internal/application/auth"
	"github.com/drb-alger/gestion-magasin/internal/application/inventory"
	"github.com/drb-alger/gestion-magasin/internal/application/report"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *inventory.ProductUseCase
	MovementUC     *inventory.MovementUseCase
	HistoryUC      *inventory.HistoryUseCase
	Replenishment  *inventory.ReplenishmentUseCase
	ReportUC       *report.UseCase
	AuthUC         *auth.AuthUseCase
	Catalog        entity.Catalog
	JWTSecret      string
	MetricsHandler nethttp.Handler // nil = sin /metrics
	ServiceName    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(auth.Role))

	protected.Get("/catalog", NewCatalogHandler(deps.Catalog).Get)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Replenishment)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/low-stock/count", productHandler.CountLowStock)
	products.Get("/low-stock", productHandler.LowStockList)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Patch("/:id/quantity", productHandler.AdjustQuantity)
	products.Delete("/:id", productHandler.Delete)

	// Movements
	inventoryHandler := NewInventoryHandler(deps.MovementUC)
	products.Post("/:id/allocations", inventoryHandler.Allocate)
	products.Get("/:id/movements", productHandler.Movements)
	products.Post("/:id/movements", inventoryHandler.Restock)
	protected.Get("/movements", NewHistoryHandler(deps.HistoryUC).Query)

	// Reports
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/inventory", reportHandler.Inventory)
	reports.Get("/history", reportHandler.History)
}
