package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderLineRequest renglón de una orden de compra nueva.
type CreateOrderLineRequest struct {
	ItemID    string          `json:"item_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Batch     string          `json:"batch,omitempty"`
	Expiry    *time.Time      `json:"expiry,omitempty"`
}

// CreateOrderRequest body para POST /api/purchase-orders.
type CreateOrderRequest struct {
	SiteID     string                   `json:"site_id" validate:"required"`
	SupplierID string                   `json:"supplier_id" validate:"required"`
	Currency   string                   `json:"currency" validate:"required,len=3"`
	TaxRate    decimal.Decimal          `json:"tax_rate"`
	Notes      string                   `json:"notes,omitempty"`
	Lines      []CreateOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceiveLineRequest renglón de una recepción contra una orden.
type ReceiveLineRequest struct {
	ItemID   string           `json:"item_id" validate:"required"`
	Quantity decimal.Decimal  `json:"quantity"`
	Batch    string           `json:"batch,omitempty"`
	Expiry   *time.Time       `json:"expiry,omitempty"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ReceiveRequest body para POST /api/purchase-orders/:id/receipts.
type ReceiveRequest struct {
	Lines []ReceiveLineRequest `json:"lines" validate:"required,min=1,dive"`
	Notes string               `json:"notes,omitempty"`
}

// LineProgressDTO avance de recepción de un renglón (derivado del libro).
type LineProgressDTO struct {
	ItemID   string          `json:"item_id"`
	Ordered  decimal.Decimal `json:"ordered"`
	Received decimal.Decimal `json:"received"`
	Pending  decimal.Decimal `json:"pending"`
}

// ReceiptProgressDTO avance de toda la orden.
type ReceiptProgressDTO struct {
	OrderID  string            `json:"order_id"`
	Complete bool              `json:"complete"`
	Lines    []LineProgressDTO `json:"lines"`
}

// ReceiveResponse resultado de la recepción: ids creados, avance y estado final.
type ReceiveResponse struct {
	MovementIDs []string           `json:"movement_ids"`
	Progress    ReceiptProgressDTO `json:"progress"`
	OrderStatus string             `json:"order_status"`
}

// OrderLineDTO renglón en respuestas de orden.
type OrderLineDTO struct {
	LineNo    int             `json:"line_no"`
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Batch     string          `json:"batch,omitempty"`
	Expiry    *time.Time      `json:"expiry,omitempty"`
}

// OrderResponse orden con totales y, si se pide, el avance de recepción.
type OrderResponse struct {
	ID         string              `json:"id"`
	Code       string              `json:"code"`
	SiteID     string              `json:"site_id"`
	SupplierID string              `json:"supplier_id"`
	Status     string              `json:"status"`
	Currency   string              `json:"currency"`
	TaxRate    decimal.Decimal     `json:"tax_rate"`
	Subtotal   decimal.Decimal     `json:"subtotal"`
	Tax        decimal.Decimal     `json:"tax"`
	Total      decimal.Decimal     `json:"total"`
	Lines      []OrderLineDTO      `json:"lines"`
	ReceivedAt *time.Time          `json:"received_at,omitempty"`
	Progress   *ReceiptProgressDTO `json:"progress,omitempty"`
}
