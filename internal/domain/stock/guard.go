package stock

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// CheckFloor evalúa la invariante de stock de seguridad para una operación
// de salida: si el stock proyectado tras la operación queda bajo el piso y
// el piso está configurado (> 0), la operación se rechaza.
//
// Con SafetyStock en 0 no hay piso y el stock puede quedar negativo
// (comportamiento heredado; decisión registrada en DESIGN.md).
// Las entradas nunca pasan por este guard.
func CheckFloor(siteID, itemID string, policy entity.ItemPolicy, projectedAfter decimal.Decimal) error {
	if !policy.SafetyStock.IsPositive() {
		return nil
	}
	if projectedAfter.LessThan(policy.SafetyStock) {
		return &domain.SafetyStockViolation{
			SiteID:    siteID,
			ItemID:    itemID,
			Projected: projectedAfter,
			Floor:     policy.SafetyStock,
		}
	}
	return nil
}
