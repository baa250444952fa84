package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/retail-api/internal/application/access"
	"github.com/jhoicas/retail-api/internal/application/auth"
	"github.com/jhoicas/retail-api/internal/application/cart"
	"github.com/jhoicas/retail-api/internal/application/inventory"
	"github.com/jhoicas/retail-api/internal/application/sales"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	CompanyUC      *usecase.CompanyUseCase
	BranchUC       *usecase.BranchUseCase
	ProductUC      *usecase.ProductUseCase
	SupplierUC     *usecase.SupplierUseCase
	PlanUC         *usecase.PlanUseCase
	SubscriptionUC *usecase.SubscriptionUseCase
	FeatureGate    *access.FeatureGate
	Ledger         *inventory.Ledger
	Replenishment  *inventory.ReplenishmentUseCase
	SalesEngine    *sales.Engine
	Receipts       *sales.ReceiptUseCase
	Cart           *cart.UseCase
	Health         *HealthHandler
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Health != nil {
		app.Get("/health", deps.Health.Health)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: JWT + usuario vigente cargado desde el repositorio
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), CurrentUser(deps.UserUC))
	protected.Get("/me", authHandler.Me)

	managers := RequireRole(entity.RoleAdminCliente, entity.RoleGerente)

	// Funcionalidades del plan (para que el front oculte o muestre secciones)
	featureHandler := NewFeatureHandler(deps.FeatureGate)
	protected.Get("/features", featureHandler.List)
	protected.Get("/features/:code", featureHandler.Check)

	// Directorio de la empresa
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Mine)

	branchHandler := NewBranchHandler(deps.BranchUC)
	protected.Get("/branches", branchHandler.List)
	protected.Post("/branches", RequireRole(entity.RoleAdminCliente), branchHandler.Create)

	productHandler := NewProductHandler(deps.ProductUC)
	protected.Get("/products", productHandler.List)
	protected.Get("/products/:id", productHandler.GetByID)
	protected.Post("/products", managers, productHandler.Create)

	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	protected.Get("/suppliers", supplierHandler.List)
	protected.Post("/suppliers", managers, supplierHandler.Create)

	// Ventas (funcionalidad sales)
	saleHandler := NewSaleHandler(deps.SalesEngine, deps.Receipts)
	salesGroup := protected.Group("/sales", RequireFeature(entity.FeatureSales, deps.FeatureGate))
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Carrito / punto de venta (funcionalidad pos)
	cartHandler := NewCartHandler(deps.Cart)
	cartGroup := protected.Group("/cart", RequireFeature(entity.FeaturePOS, deps.FeatureGate))
	cartGroup.Get("/", cartHandler.List)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Delete("/items/:id", cartHandler.RemoveItem)
	cartGroup.Post("/checkout", cartHandler.Checkout)

	// Inventario (funcionalidad inventory)
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup := protected.Group("/inventory", RequireFeature(entity.FeatureInventory, deps.FeatureGate))
	invGroup.Get("/", inventoryHandler.List)
	invGroup.Post("/", managers, inventoryHandler.Open)
	invGroup.Get("/movements", inventoryHandler.Movements)
	invGroup.Post("/movements", managers, inventoryHandler.RegisterMovement)
	invGroup.Get("/reconcile", inventoryHandler.Reconcile)

	// Reportes: sin RequireFeature, la vista se degrada si el plan no los incluye
	reportHandler := NewReportHandler(deps.Replenishment)
	protected.Get("/reports/replenishment", reportHandler.Replenishment)

	// Administración de la plataforma (super_admin)
	adminHandler := NewAdminHandler(deps.PlanUC, deps.SubscriptionUC)
	admin := protected.Group("/admin", RequireRole(entity.RoleSuperAdmin))
	admin.Get("/features", adminHandler.ListFeatures)
	admin.Post("/plans", adminHandler.CreatePlan)
	admin.Get("/plans", adminHandler.ListPlans)
	admin.Put("/plans/:id/features", adminHandler.SetPlanFeatures)
	admin.Delete("/plans/:id", adminHandler.DeletePlan)
	admin.Post("/companies", companyHandler.Create)
	admin.Get("/companies", companyHandler.List)
	admin.Get("/companies/:id", companyHandler.GetByID)
	admin.Patch("/companies/:id", companyHandler.Update)
	admin.Get("/companies/:id/subscription", adminHandler.GetSubscription)
	admin.Put("/companies/:id/subscription", adminHandler.AssignSubscription)
	admin.Post("/companies/:id/subscription/cancel", adminHandler.CancelSubscription)
}
