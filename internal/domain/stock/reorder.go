package stock

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

var daysPerMonth = decimal.NewFromInt(30)

// ShouldReorder indica si el stock está en o bajo el punto de reorden.
func ShouldReorder(policy entity.ItemPolicy, current decimal.Decimal) bool {
	return current.LessThanOrEqual(policy.ReorderPoint)
}

// DailyConsumption estima el consumo diario: AvgMonthlyConsumption / 30.
func DailyConsumption(policy entity.ItemPolicy) decimal.Decimal {
	return policy.AvgMonthlyConsumption.Div(daysPerMonth)
}

// DaysCoverage estima los días de cobertura: floor(stock / consumoDiario).
// Devuelve nil cuando el consumo diario es 0 (cobertura indefinida).
func DaysCoverage(current, daily decimal.Decimal) *int64 {
	if daily.IsZero() {
		return nil
	}
	days := current.Div(daily).Floor().IntPart()
	return &days
}

// ProposedQty calcula la cantidad de reposición propuesta:
// target = safetyStock + avgMonthlyConsumption - stockActual, con piso en 0.
func ProposedQty(policy entity.ItemPolicy, current decimal.Decimal) decimal.Decimal {
	qty := policy.SafetyStock.Add(policy.AvgMonthlyConsumption).Sub(current)
	if qty.IsNegative() {
		return decimal.Zero
	}
	return qty
}
