package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockAlert evento de stock bajo para una (sede, ítem).
// El core lo emite; notificaciones y compras lo consumen por fuera.
type LowStockAlert struct {
	ID               string
	SiteID           string
	ItemID           string
	Stock            decimal.Decimal
	ReorderPoint     decimal.Decimal
	SafetyStock      decimal.Decimal
	DailyConsumption decimal.Decimal // AvgMonthlyConsumption / 30
	DaysCoverage     *int64          // nil cuando el consumo diario es 0
	CreatedAt        time.Time
}

// ReplenishmentProposal propuesta de orden de reposición al proveedor preferido.
// Solo se emite cuando la cantidad propuesta resulta positiva.
type ReplenishmentProposal struct {
	ID          string
	SiteID      string
	ItemID      string
	SupplierID  string
	ProposedQty decimal.Decimal // safetyStock + avgMonthlyConsumption - stock
	CreatedAt   time.Time
}
