package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento del libro de inventario.
const (
	DirectionIN     = "IN"     // entrada
	DirectionOUT    = "OUT"    // salida
	DirectionADJUST = "ADJUST" // ajuste con signo obligatorio
)

// Signos para ADJUST.
const (
	AdjustSignIN  = "IN"
	AdjustSignOUT = "OUT"
)

// Razones de negocio estándar de un movimiento.
const (
	ReasonPurchase    = "PURCHASE"
	ReasonDispense    = "DISPENSE"
	ReasonAdjustment  = "ADJUSTMENT"
	ReasonTransferIn  = "TRANSFER_IN"
	ReasonTransferOut = "TRANSFER_OUT"
	ReasonWriteOff    = "WRITE_OFF"
)

// Tipos de documento origen de un movimiento.
const (
	RefKindPurchaseOrder = "PURCHASE_ORDER"
	RefKindReceipt       = "RECEIPT"
	RefKindIssue         = "ISSUE"
	RefKindAdjustment    = "MANUAL_ADJUSTMENT"
	RefKindTransfer      = "TRANSFER"
	RefKindOther         = "OTHER"
)

// DocumentRef referencia al documento que originó el movimiento.
type DocumentRef struct {
	Kind string
	ID   string
	Code string // código legible (número de orden, remisión, etc.)
}

// Movement es un registro del libro de movimientos (append-only).
// Nunca se actualiza ni se borra después del commit: una corrección
// es un nuevo movimiento que compensa al anterior.
type Movement struct {
	ID         string
	Seq        int64 // secuencia de inserción; desempate estable del kardex
	SiteID     string
	ItemID     string
	Direction  string          // IN, OUT, ADJUST
	AdjustSign string          // IN u OUT; obligatorio cuando Direction es ADJUST
	Quantity   decimal.Decimal // siempre > 0; el signo lo da la dirección
	UOM        string
	Batch      string
	Expiry     *time.Time
	UnitCost   *decimal.Decimal
	Ref        DocumentRef
	Reason     string
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
}

// SignedQuantity devuelve la cantidad con el signo que indica la dirección:
// IN -> +qty, OUT -> -qty, ADJUST -> +qty o -qty según AdjustSign.
func (m *Movement) SignedQuantity() decimal.Decimal {
	switch m.Direction {
	case DirectionIN:
		return m.Quantity
	case DirectionOUT:
		return m.Quantity.Neg()
	case DirectionADJUST:
		if m.AdjustSign == AdjustSignOUT {
			return m.Quantity.Neg()
		}
		return m.Quantity
	}
	return decimal.Zero
}

// IsDecreasing indica si el movimiento reduce el stock (sujeto al guard de stock de seguridad).
func (m *Movement) IsDecreasing() bool {
	return m.SignedQuantity().IsNegative()
}

// ValidDirection verifica dirección y signo de ajuste.
func ValidDirection(direction, adjustSign string) bool {
	switch direction {
	case DirectionIN, DirectionOUT:
		return true
	case DirectionADJUST:
		return adjustSign == AdjustSignIN || adjustSign == AdjustSignOUT
	}
	return false
}
