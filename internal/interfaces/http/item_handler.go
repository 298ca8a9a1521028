package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
)

// ItemHandler escritura de la política de reposición del ítem.
// El CRUD del maestro de ítems vive en otro servicio; aquí solo la política,
// porque su invariante (reorder_point >= safety_stock) pertenece al core.
type ItemHandler struct {
	policy *inventory.PolicyUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(policy *inventory.PolicyUseCase) *ItemHandler {
	return &ItemHandler{policy: policy}
}

// UpdatePolicy godoc
// @Summary      Actualizar la política de reposición de un ítem
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del ítem"
// @Param        body  body  dto.UpdatePolicyRequest  true  "reorder_point, safety_stock, avg_monthly_consumption"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/policy [put]
func (h *ItemHandler) UpdatePolicy(c *fiber.Ctx) error {
	var in dto.UpdatePolicyRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.policy.UpdatePolicy(c.Context(), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "política actualizada"})
}
