package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-api/internal/application/catalog"
	"github.com/jhoicas/caja-api/internal/application/inventory"
	"github.com/jhoicas/caja-api/internal/application/pos"
	"github.com/jhoicas/caja-api/internal/application/purchasing"
	"github.com/jhoicas/caja-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	POS           *pos.Service
	Sales         *sales.UseCase
	Customers     *sales.CustomerUseCase
	Inventory     *inventory.UseCase
	Replenishment *inventory.ReplenishmentUseCase
	Purchasing    *purchasing.UseCase
	Suppliers     *purchasing.SupplierUseCase
	Products      *catalog.ProductUseCase
	Warehouses    *catalog.WarehouseUseCase
	JWTSecret     string
	JWTIssuer     string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	anyRole := RequireRole(RoleAdmin, RoleBodeguero, RoleCajero)
	stockRoles := RequireRole(RoleAdmin, RoleBodeguero)
	adminOnly := RequireRole(RoleAdmin)

	// Sesiones de caja
	posHandler := NewPOSHandler(deps.POS)
	sessions := api.Group("/pos/sessions", anyRole)
	sessions.Post("/", posHandler.Open)
	sessions.Get("/:id", posHandler.Get)
	sessions.Delete("/:id", posHandler.Close)
	sessions.Get("/:id/events", posHandler.Events)
	sessions.Post("/:id/carts", posHandler.AddCart)
	sessions.Delete("/:id/carts/:cartId", posHandler.RemoveCart)
	sessions.Put("/:id/carts/:cartId/active", posHandler.SetActiveCart)
	sessions.Put("/:id/discount", posHandler.SetDiscount)
	sessions.Post("/:id/items", posHandler.AddItem)
	sessions.Patch("/:id/items/:productId/:unitId", posHandler.UpdateQty)
	sessions.Delete("/:id/items/:productId/:unitId", posHandler.RemoveItem)
	sessions.Put("/:id/items/:productId/:unitId/unit", posHandler.ChangeUnit)
	sessions.Get("/:id/stock/:productId", posHandler.Stock)
	sessions.Post("/:id/checkout", posHandler.Checkout)

	// Ventas y deudas
	saleHandler := NewSaleHandler(deps.Sales)
	salesGroup := api.Group("/sales", anyRole)
	salesGroup.Post("/", saleHandler.Checkout)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Post("/:id/returns", saleHandler.Return)

	debts := api.Group("/debts", anyRole)
	debts.Get("/", saleHandler.ListDebts)
	debts.Post("/:id/payments", saleHandler.PayDebt)

	customerHandler := NewCustomerHandler(deps.Customers)
	customers := api.Group("/customers", anyRole)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Inventario: rutas fijas antes de /:productId
	inventoryHandler := NewInventoryHandler(deps.Inventory, deps.Replenishment)
	inv := api.Group("/inventory")
	inv.Get("/movements", stockRoles, inventoryHandler.ListMovements)
	inv.Get("/replenishment-list", stockRoles, inventoryHandler.GetReplenishmentList)
	inv.Post("/adjustments", stockRoles, inventoryHandler.Adjust)
	inv.Post("/reservations", anyRole, inventoryHandler.Reserve)
	inv.Post("/reservations/release", anyRole, inventoryHandler.Release)
	inv.Post("/reservations/fulfill", stockRoles, inventoryHandler.Fulfill)
	inv.Get("/:productId", anyRole, inventoryHandler.GetStock)

	// Compras y proveedores
	purchaseHandler := NewPurchaseHandler(deps.Purchasing, deps.Suppliers)
	purchases := api.Group("/purchases", stockRoles)
	purchases.Post("/", purchaseHandler.Receive)
	purchases.Post("/returns", purchaseHandler.ReturnToSupplier)
	purchases.Get("/:id", purchaseHandler.GetByID)

	suppliers := api.Group("/suppliers", stockRoles)
	suppliers.Post("/", purchaseHandler.CreateSupplier)
	suppliers.Get("/", purchaseHandler.ListSuppliers)

	// Catálogo
	productHandler := NewProductHandler(deps.Products)
	products := api.Group("/products")
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Get("/:id/convert", anyRole, productHandler.Convert)

	warehouseHandler := NewWarehouseHandler(deps.Warehouses)
	warehouses := api.Group("/warehouses")
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", anyRole, warehouseHandler.List)
	warehouses.Get("/:id", anyRole, warehouseHandler.GetByID)
}
