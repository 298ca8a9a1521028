package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/purchasing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Movements *inventory.RegisterMovementUseCase
	WriteOff  *inventory.WriteOffUseCase
	Reorder   *inventory.ReorderEvaluatorUseCase
	Kardex    *inventory.KardexUseCase
	Policy    *inventory.PolicyUseCase
	Receive   *inventory.ReceiveOrderUseCase
	Orders    *purchasing.OrderUseCase
}

// Router registra las rutas de la API. La autenticación/autorización corre en
// el gateway; este servicio confía en la identidad propagada por cabecera.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Motor de inventario
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Movements, deps.WriteOff, deps.Reorder, deps.Kardex)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Post("/transfers", inventoryHandler.Transfer)
	inv.Post("/write-offs", inventoryHandler.WriteOffExpired)
	inv.Post("/reorder-check", inventoryHandler.ReorderCheck)
	inv.Get("/stock", inventoryHandler.GetStock)
	inv.Get("/low-stock", inventoryHandler.GetLowStock)
	inv.Get("/kardex", inventoryHandler.GetKardex)

	// Órdenes de compra y recepciones
	orders := api.Group("/purchase-orders")
	purchaseHandler := NewPurchaseHandler(deps.Orders, deps.Receive)
	orders.Post("/", purchaseHandler.Create)
	orders.Get("/:id", purchaseHandler.GetByID)
	orders.Post("/:id/send", purchaseHandler.Send)
	orders.Post("/:id/cancel", purchaseHandler.Cancel)
	orders.Post("/:id/receipts", purchaseHandler.Receive)

	// Política de reposición del ítem
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Policy)
	items.Put("/:id/policy", itemHandler.UpdatePolicy)
}
