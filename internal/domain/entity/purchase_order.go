package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra.
const (
	OrderStatusDraft     = "DRAFT"
	OrderStatusSent      = "SENT"
	OrderStatusReceived  = "RECEIVED"
	OrderStatusCancelled = "CANCELLED"
)

// PurchaseOrderLine renglón de una orden de compra.
type PurchaseOrderLine struct {
	ID         string
	OrderID    string
	LineNo     int
	ItemID     string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Batch      string     // lote predefinido por el proveedor (opcional)
	Expiry     *time.Time // vencimiento predefinido (opcional)
}

// LineTotal devuelve Quantity * UnitPrice.
func (l PurchaseOrderLine) LineTotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// PurchaseOrder orden de compra a un proveedor para una sede.
// Los totales siempre se recalculan desde los renglones antes de persistir;
// el avance de recepción por renglón se deriva del libro, nunca se almacena.
type PurchaseOrder struct {
	ID         string
	Code       string
	SiteID     string
	SupplierID string
	Status     string
	Currency   string
	TaxRate    decimal.Decimal // porcentaje, ej. 19
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	Lines      []PurchaseOrderLine
	ReceivedAt *time.Time
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RecalculateTotals recalcula subtotal, impuesto y total desde los renglones.
func (o *PurchaseOrder) RecalculateTotals() {
	subtotal := decimal.Zero
	for _, l := range o.Lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	o.Subtotal = subtotal
	o.Tax = subtotal.Mul(o.TaxRate).Div(decimal.NewFromInt(100))
	o.Total = o.Subtotal.Add(o.Tax)
}

// LineForItem devuelve el renglón del ítem, o nil si el ítem no está en la orden.
func (o *PurchaseOrder) LineForItem(itemID string) *PurchaseOrderLine {
	for i := range o.Lines {
		if o.Lines[i].ItemID == itemID {
			return &o.Lines[i]
		}
	}
	return nil
}

// CanTransition valida la máquina de estados:
// DRAFT -> SENT -> RECEIVED, y DRAFT|SENT -> CANCELLED.
func (o *PurchaseOrder) CanTransition(next string) bool {
	switch next {
	case OrderStatusSent:
		return o.Status == OrderStatusDraft
	case OrderStatusReceived:
		return o.Status == OrderStatusDraft || o.Status == OrderStatusSent
	case OrderStatusCancelled:
		return o.Status == OrderStatusDraft || o.Status == OrderStatusSent
	}
	return false
}
