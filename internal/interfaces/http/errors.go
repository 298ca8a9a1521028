package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
)

// validate instancia compartida del validador de DTOs (los tags `validate:`).
var validate = validator.New()

// parseAndValidate parsea el body JSON y valida los tags del DTO.
func parseAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("body", "cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return domain.NewValidationError(ve[0].Field(), "no cumple la regla "+ve[0].Tag())
		}
		return domain.NewValidationError("body", err.Error())
	}
	return nil
}

// errMissingParam query param obligatorio ausente.
func errMissingParam(field string) error {
	return domain.NewValidationError(field, "parámetro obligatorio")
}

// errInvalidDate error de parseo de fechas en query params.
func errInvalidDate(field string) error {
	return domain.NewValidationError(field, "fecha inválida; usar RFC3339")
}

// respondError mapea errores de dominio a respuestas HTTP.
// La taxonomía: validación -> 400, no encontrado -> 404, piso de seguridad y
// transiciones -> 409, conflicto de concurrencia -> 409 con retryable.
func respondError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "campo " + ve[0].Field() + " no cumple la regla " + ve[0].Tag(),
		})
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: vErr.Error(),
		})
	}
	var ssErr *domain.SafetyStockViolation
	if errors.As(err, &ssErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "SAFETY_STOCK_VIOLATION",
			Message: ssErr.Error(),
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "recurso no encontrado",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrForbiddenTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN_TRANSITION",
			Message: "la orden no admite esa transición de estado",
		})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "CONCURRENCY_CONFLICT",
			Message:   "conflicto de concurrencia; reintente la operación",
			Retryable: true,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    "INTERNAL",
		Message: err.Error(),
	})
}
