package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// GetUserID identidad del emisor. La autenticación vive en el gateway externo;
// aquí solo se propaga la identidad ya resuelta para el created_by del libro.
func GetUserID(c *fiber.Ctx) string {
	return c.Get("X-User-Id")
}

// InventoryHandler maneja las peticiones HTTP del motor de inventario.
type InventoryHandler struct {
	movements *inventory.RegisterMovementUseCase
	writeOff  *inventory.WriteOffUseCase
	reorder   *inventory.ReorderEvaluatorUseCase
	kardex    *inventory.KardexUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	writeOff *inventory.WriteOffUseCase,
	reorder *inventory.ReorderEvaluatorUseCase,
	kardex *inventory.KardexUseCase,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, writeOff: writeOff, reorder: reorder, kardex: kardex}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario (IN, OUT o ADJUST)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "site_id, item_id, direction, quantity; adjust_sign para ADJUST"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	result, err := h.movements.RegisterMovement(c.Context(), inventory.MovementInput{
		SiteID:     in.SiteID,
		ItemID:     in.ItemID,
		Direction:  in.Direction,
		AdjustSign: in.AdjustSign,
		Quantity:   in.Quantity,
		Batch:      in.Batch,
		Expiry:     in.Expiry,
		UnitCost:   in.UnitCost,
		Reason:     in.Reason,
		Ref:        entity.DocumentRef{Kind: in.RefKind, ID: in.RefID, Code: in.RefCode},
		Notes:      in.Notes,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResultResponse{
		MovementID: result.MovementID,
		Before:     result.Before,
		After:      result.After,
	})
}

// Transfer godoc
// @Summary      Traslado de stock entre sedes (atómico, dos movimientos)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "from_site_id, to_site_id, item_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	result, err := h.movements.Transfer(c.Context(), inventory.TransferInput{
		FromSiteID: in.FromSiteID,
		ToSiteID:   in.ToSiteID,
		ItemID:     in.ItemID,
		Quantity:   in.Quantity,
		Batch:      in.Batch,
		Expiry:     in.Expiry,
		Notes:      in.Notes,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		OutMovementID: result.OutMovementID,
		InMovementID:  result.InMovementID,
		FromAfter:     result.FromAfter,
		ToAfter:       result.ToAfter,
	})
}

// WriteOffExpired godoc
// @Summary      Baja de lotes vencidos en una sede hasta la fecha de corte
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WriteOffRequest  true  "site_id; cutoff e item_id opcionales"
// @Success      200   {object}  dto.WriteOffReport
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/write-offs [post]
func (h *InventoryHandler) WriteOffExpired(c *fiber.Ctx) error {
	var in dto.WriteOffRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	report, err := h.writeOff.WriteOffExpired(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetStock godoc
// @Summary      Stock proyectado de una (sede, ítem), opcionalmente por lote
// @Tags         inventory
// @Produce      json
// @Param        site_id  query  string  true   "Sede (UUID)"
// @Param        item_id  query  string  true   "Ítem (UUID)"
// @Param        batch    query  string  false  "Lote"
// @Param        expiry   query  string  false  "Vencimiento (RFC3339)"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	q := dto.StockQuery{
		SiteID: c.Query("site_id"),
		ItemID: c.Query("item_id"),
		Batch:  c.Query("batch"),
	}
	if expiry := c.Query("expiry"); expiry != "" {
		t, err := time.Parse(time.RFC3339, expiry)
		if err != nil {
			return respondError(c, errInvalidDate("expiry"))
		}
		q.Expiry = &t
	}
	if err := validate.Struct(&q); err != nil {
		return respondError(c, err)
	}
	resp, err := h.kardex.Stock(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetKardex godoc
// @Summary      Kardex (saldo corrido) de una (sede, ítem) en un rango de fechas
// @Tags         inventory
// @Produce      json
// @Param        site_id  query  string  true   "Sede (UUID)"
// @Param        item_id  query  string  true   "Ítem (UUID)"
// @Param        batch    query  string  false  "Lote"
// @Param        expiry   query  string  false  "Vencimiento (RFC3339)"
// @Param        from     query  string  false  "Desde (RFC3339)"
// @Param        to       query  string  false  "Hasta (RFC3339)"
// @Success      200  {object}  dto.KardexResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex [get]
func (h *InventoryHandler) GetKardex(c *fiber.Ctx) error {
	q := dto.KardexQuery{
		SiteID: c.Query("site_id"),
		ItemID: c.Query("item_id"),
		Batch:  c.Query("batch"),
	}
	if expiry := c.Query("expiry"); expiry != "" {
		t, err := time.Parse(time.RFC3339, expiry)
		if err != nil {
			return respondError(c, errInvalidDate("expiry"))
		}
		q.Expiry = &t
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return respondError(c, errInvalidDate("from"))
		}
		q.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return respondError(c, errInvalidDate("to"))
		}
		q.To = &t
	}
	if err := validate.Struct(&q); err != nil {
		return respondError(c, err)
	}
	resp, err := h.kardex.Replay(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetLowStock godoc
// @Summary      Ítems de la sede en o bajo su punto de reorden
// @Tags         inventory
// @Produce      json
// @Param        site_id  query  string  true   "Sede (UUID)"
// @Param        limit    query  int     false  "Máximo de filas (50 por defecto)"
// @Param        offset   query  int     false  "Filas a saltar"
// @Success      200  {object}  dto.LowStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	siteID := c.Query("site_id")
	if siteID == "" {
		return respondError(c, errMissingParam("site_id"))
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, domain.NewValidationError("page", "limit y offset deben ser enteros"))
	}
	if err := validate.Struct(&page); err != nil {
		return respondError(c, err)
	}
	resp, err := h.reorder.ListLowStock(c.Context(), siteID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ReorderCheck godoc
// @Summary      Evaluación explícita de reorden para una (sede, ítem)
// @Description  Idempotente: dos llamadas seguidas sin escrituras intermedias
//               producen la misma decisión y la misma cantidad propuesta.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReorderCheckRequest  true  "site_id, item_id"
// @Success      200   {object}  dto.ReorderEvaluationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/reorder-check [post]
func (h *InventoryHandler) ReorderCheck(c *fiber.Ctx) error {
	var in dto.ReorderCheckRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	resp, err := h.reorder.Evaluate(c.Context(), in.SiteID, in.ItemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
