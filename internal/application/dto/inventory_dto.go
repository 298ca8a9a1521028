package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Direction: IN, OUT o ADJUST (ADJUST exige adjust_sign IN|OUT).
type RegisterMovementRequest struct {
	SiteID     string           `json:"site_id" validate:"required"`
	ItemID     string           `json:"item_id" validate:"required"`
	Direction  string           `json:"direction" validate:"required,oneof=IN OUT ADJUST"`
	AdjustSign string           `json:"adjust_sign,omitempty" validate:"omitempty,oneof=IN OUT"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Batch      string           `json:"batch,omitempty"`
	Expiry     *time.Time       `json:"expiry,omitempty"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	RefKind    string           `json:"ref_kind,omitempty"`
	RefID      string           `json:"ref_id,omitempty"`
	RefCode    string           `json:"ref_code,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

// MovementResultResponse resultado de un movimiento confirmado:
// id del registro y el snapshot de stock antes/después.
type MovementResultResponse struct {
	MovementID string          `json:"movement_id"`
	Before     decimal.Decimal `json:"stock_before"`
	After      decimal.Decimal `json:"stock_after"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	FromSiteID string          `json:"from_site_id" validate:"required"`
	ToSiteID   string          `json:"to_site_id" validate:"required"`
	ItemID     string          `json:"item_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	Batch      string          `json:"batch,omitempty"`
	Expiry     *time.Time      `json:"expiry,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// TransferResponse ids de las dos piernas del traslado (salida y entrada).
type TransferResponse struct {
	OutMovementID string          `json:"out_movement_id"`
	InMovementID  string          `json:"in_movement_id"`
	FromAfter     decimal.Decimal `json:"from_stock_after"`
	ToAfter       decimal.Decimal `json:"to_stock_after"`
}

// WriteOffRequest body para POST /api/inventory/write-offs.
// Da de baja los lotes vencidos en o antes de cutoff en la sede.
type WriteOffRequest struct {
	SiteID string     `json:"site_id" validate:"required"`
	Cutoff *time.Time `json:"cutoff,omitempty"` // nil = hoy
	ItemID string     `json:"item_id,omitempty"`
	Notes  string     `json:"notes,omitempty"`
}

// WriteOffScopeResult resultado por (ítem, lote, vencimiento).
type WriteOffScopeResult struct {
	ItemID     string          `json:"item_id"`
	Batch      string          `json:"batch,omitempty"`
	Expiry     *time.Time      `json:"expiry,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	MovementID string          `json:"movement_id,omitempty"` // vacío cuando fue omitido
	Skipped    bool            `json:"skipped"`
	SkipReason string          `json:"skip_reason,omitempty"`
}

// WriteOffReport reporte del batch: qué se dio de baja y qué se omitió y por qué.
type WriteOffReport struct {
	SiteID     string                `json:"site_id"`
	Cutoff     time.Time             `json:"cutoff"`
	WrittenOff []WriteOffScopeResult `json:"written_off"`
	Skipped    []WriteOffScopeResult `json:"skipped"`
}

// StockQuery query para GET /api/inventory/stock.
type StockQuery struct {
	SiteID string     `query:"site_id" validate:"required"`
	ItemID string     `query:"item_id" validate:"required"`
	Batch  string     `query:"batch"`
	Expiry *time.Time `query:"expiry"`
}

// StockResponse stock proyectado del scope.
type StockResponse struct {
	SiteID string          `json:"site_id"`
	ItemID string          `json:"item_id"`
	Batch  string          `json:"batch,omitempty"`
	Stock  decimal.Decimal `json:"stock"`
}

// KardexQuery query para GET /api/inventory/kardex.
type KardexQuery struct {
	SiteID string     `query:"site_id" validate:"required"`
	ItemID string     `query:"item_id" validate:"required"`
	Batch  string     `query:"batch"`
	Expiry *time.Time `query:"expiry"`
	From   *time.Time `query:"from"`
	To     *time.Time `query:"to"`
}

// KardexEntryDTO un movimiento con su saldo corrido.
type KardexEntryDTO struct {
	MovementID string           `json:"movement_id"`
	Date       time.Time        `json:"date"`
	Direction  string           `json:"direction"`
	AdjustSign string           `json:"adjust_sign,omitempty"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Signed     decimal.Decimal  `json:"signed_quantity"`
	Balance    decimal.Decimal  `json:"running_balance"`
	Batch      string           `json:"batch,omitempty"`
	Expiry     *time.Time       `json:"expiry,omitempty"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	RefCode    string           `json:"ref_code,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

// KardexResponse kardex del scope con saldo de apertura y cierre del rango.
type KardexResponse struct {
	SiteID  string           `json:"site_id"`
	ItemID  string           `json:"item_id"`
	Opening decimal.Decimal  `json:"opening_balance"`
	Closing decimal.Decimal  `json:"closing_balance"`
	Entries []KardexEntryDTO `json:"entries"`
}

// ReorderCheckRequest body para POST /api/inventory/reorder-check.
type ReorderCheckRequest struct {
	SiteID string `json:"site_id" validate:"required"`
	ItemID string `json:"item_id" validate:"required"`
}

// ReorderEvaluationResponse resultado de la evaluación de reorden (idempotente).
type ReorderEvaluationResponse struct {
	Triggered        bool             `json:"triggered"`
	Stock            decimal.Decimal  `json:"stock"`
	ReorderPoint     decimal.Decimal  `json:"reorder_point"`
	DailyConsumption decimal.Decimal  `json:"daily_consumption"`
	DaysCoverage     *int64           `json:"days_coverage,omitempty"`
	ProposedQty      *decimal.Decimal `json:"proposed_qty,omitempty"`
	SupplierID       string           `json:"supplier_id,omitempty"`
}

// LowStockRow un ítem de la sede en o bajo su punto de reorden.
type LowStockRow struct {
	ItemID           string          `json:"item_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	UOM              string          `json:"uom"`
	Stock            decimal.Decimal `json:"stock"`
	ReorderPoint     decimal.Decimal `json:"reorder_point"`
	SafetyStock      decimal.Decimal `json:"safety_stock"`
	DailyConsumption decimal.Decimal `json:"daily_consumption"`
	DaysCoverage     *int64          `json:"days_coverage,omitempty"`
	SupplierID       string          `json:"supplier_id,omitempty"`
}

// LowStockResponse respuesta paginada de GET /api/inventory/low-stock.
type LowStockResponse struct {
	SiteID string        `json:"site_id"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Items  []LowStockRow `json:"items"`
}

// UpdatePolicyRequest body para PUT /api/items/:id/policy.
type UpdatePolicyRequest struct {
	ReorderPoint          decimal.Decimal `json:"reorder_point"`
	SafetyStock           decimal.Decimal `json:"safety_stock"`
	AvgMonthlyConsumption decimal.Decimal `json:"avg_monthly_consumption"`
}
