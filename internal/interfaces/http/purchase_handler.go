package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/purchasing"
)

// PurchaseHandler maneja las peticiones HTTP de órdenes de compra y recepciones.
type PurchaseHandler struct {
	orders  *purchasing.OrderUseCase
	receive *inventory.ReceiveOrderUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(orders *purchasing.OrderUseCase, receive *inventory.ReceiveOrderUseCase) *PurchaseHandler {
	return &PurchaseHandler{orders: orders, receive: receive}
}

// Create godoc
// @Summary      Crear orden de compra en borrador
// @Tags         purchasing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "site_id, supplier_id, currency, tax_rate, lines"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	order, err := h.orders.CreateDraft(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// GetByID godoc
// @Summary      Consultar orden con su avance de recepción derivado del libro
// @Tags         purchasing
// @Produce      json
// @Param        id        path   string  true   "ID de la orden"
// @Param        progress  query  bool    false  "Incluir avance de recepción"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	withProgress := c.QueryBool("progress", true)
	order, err := h.orders.GetOrder(c.Context(), c.Params("id"), withProgress)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// Send godoc
// @Summary      Marcar la orden como enviada al proveedor
// @Tags         purchasing
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/send [post]
func (h *PurchaseHandler) Send(c *fiber.Ctx) error {
	if err := h.orders.Send(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden enviada"})
}

// Cancel godoc
// @Summary      Cancelar la orden (solo DRAFT o SENT)
// @Tags         purchasing
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	if err := h.orders.Cancel(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden cancelada"})
}

// Receive godoc
// @Summary      Registrar recepción contra la orden (unidad atómica)
// @Description  Un IN por renglón recibido; si algún ítem no es renglón de la
//               orden toda la recepción se rechaza y el libro queda intacto.
// @Tags         purchasing
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la orden"
// @Param        body  body  dto.ReceiveRequest  true  "Renglones recibidos"
// @Success      201   {object}  dto.ReceiveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receipts [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	resp, err := h.receive.Receive(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
