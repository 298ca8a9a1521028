package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia; reintente la operación")
	ErrForbiddenTransition = errors.New("transición de estado no permitida")
)

// ValidationError entrada malformada o incompleta. Se rechaza antes de
// cualquier escritura; nunca queda nada aplicado parcialmente.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Reason)
}

// Is permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SafetyStockViolation una operación de salida dejaría el stock proyectado
// por debajo del piso de seguridad. Lleva los valores que habrían resultado
// para que el caller pueda mostrarlos.
type SafetyStockViolation struct {
	SiteID    string
	ItemID    string
	Projected decimal.Decimal // stock que habría quedado
	Floor     decimal.Decimal // stock de seguridad configurado
}

func (e *SafetyStockViolation) Error() string {
	return fmt.Sprintf("stock de seguridad violado: ítem %s en sede %s quedaría en %s (piso %s)",
		e.ItemID, e.SiteID, e.Projected.String(), e.Floor.String())
}
