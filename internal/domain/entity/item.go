package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemPolicy política de reposición del medicamento. Es global al ítem,
// no por sede: la misma política aplica en todas las bodegas/farmacias.
type ItemPolicy struct {
	ReorderPoint          decimal.Decimal // umbral en o bajo el cual se propone reposición
	SafetyStock           decimal.Decimal // piso que las salidas no pueden romper (0 = sin piso)
	AvgMonthlyConsumption decimal.Decimal
}

// Validate aplica la invariante de escritura de política: ReorderPoint >= SafetyStock.
// Se valida al guardar la política, no al registrar movimientos.
func (p ItemPolicy) Validate() bool {
	if p.ReorderPoint.IsNegative() || p.SafetyStock.IsNegative() || p.AvgMonthlyConsumption.IsNegative() {
		return false
	}
	return p.ReorderPoint.GreaterThanOrEqual(p.SafetyStock)
}

// Item representa un medicamento del maestro de ítems.
type Item struct {
	ID                  string
	Code                string
	Name                string
	UOM                 string
	DefaultUnitCost     decimal.Decimal
	PreferredSupplierID string // vacío = sin proveedor preferido
	Policy              ItemPolicy
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
