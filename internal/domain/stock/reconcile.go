package stock

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// LineProgress avance de recepción de un renglón de orden de compra.
type LineProgress struct {
	ItemID   string
	Ordered  decimal.Decimal
	Received decimal.Decimal
	Pending  decimal.Decimal
}

// ReceiptProgress avance de recepción de la orden completa.
type ReceiptProgress struct {
	Lines    []LineProgress
	Complete bool
}

// ReconcileReceipt deriva el estado de recepción de una orden desde el libro:
// por renglón, recibido = suma de movimientos IN que referencian la orden y el
// ítem del renglón (sin acotar por lote: varios lotes pueden satisfacer un
// renglón); pendiente = max(0, pedido - recibido). La orden está completa si
// y solo si todo renglón tiene pendiente 0. No existe campo de avance cacheado.
func ReconcileReceipt(order *entity.PurchaseOrder, movements []*entity.Movement) ReceiptProgress {
	receivedByItem := make(map[string]decimal.Decimal, len(order.Lines))
	for _, m := range movements {
		if m.Direction != entity.DirectionIN {
			continue
		}
		if m.Ref.Kind != entity.RefKindPurchaseOrder || m.Ref.ID != order.ID {
			continue
		}
		receivedByItem[m.ItemID] = receivedByItem[m.ItemID].Add(m.Quantity)
	}

	progress := ReceiptProgress{
		Lines:    make([]LineProgress, 0, len(order.Lines)),
		Complete: true,
	}
	for _, line := range order.Lines {
		received := receivedByItem[line.ItemID]
		pending := line.Quantity.Sub(received)
		if pending.IsNegative() {
			pending = decimal.Zero
		}
		if pending.IsPositive() {
			progress.Complete = false
		}
		progress.Lines = append(progress.Lines, LineProgress{
			ItemID:   line.ItemID,
			Ordered:  line.Quantity,
			Received: received,
			Pending:  pending,
		})
	}
	return progress
}
