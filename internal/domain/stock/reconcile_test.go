package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

func testOrder() *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:     "order-1",
		Code:   "OC-TEST",
		SiteID: "site-1",
		Status: entity.OrderStatusSent,
		Lines: []entity.PurchaseOrderLine{
			{ItemID: "item-1", Quantity: decimal.NewFromInt(100)},
			{ItemID: "item-2", Quantity: decimal.NewFromInt(50)},
		},
	}
}

func receiptMov(itemID string, qty int64, orderID string) *entity.Movement {
	return &entity.Movement{
		SiteID:    "site-1",
		ItemID:    itemID,
		Direction: entity.DirectionIN,
		Quantity:  decimal.NewFromInt(qty),
		Ref:       entity.DocumentRef{Kind: entity.RefKindPurchaseOrder, ID: orderID},
		Reason:    entity.ReasonPurchase,
	}
}

func TestReconcileReceipt_SinRecepcionesTodoPendiente(t *testing.T) {
	progress := stock.ReconcileReceipt(testOrder(), nil)

	assert.False(t, progress.Complete)
	require.Len(t, progress.Lines, 2)
	assert.True(t, progress.Lines[0].Pending.Equal(decimal.NewFromInt(100)))
	assert.True(t, progress.Lines[1].Pending.Equal(decimal.NewFromInt(50)))
}

func TestReconcileReceipt_RecepcionParcial(t *testing.T) {
	movements := []*entity.Movement{
		receiptMov("item-1", 60, "order-1"),
		receiptMov("item-1", 20, "order-1"), // dos lotes del mismo renglón
	}

	progress := stock.ReconcileReceipt(testOrder(), movements)

	assert.False(t, progress.Complete, "item-2 sigue pendiente")
	assert.True(t, progress.Lines[0].Received.Equal(decimal.NewFromInt(80)),
		"varias entregas del mismo renglón se suman")
	assert.True(t, progress.Lines[0].Pending.Equal(decimal.NewFromInt(20)))
	assert.True(t, progress.Lines[1].Received.IsZero())
}

func TestReconcileReceipt_OrdenCompleta(t *testing.T) {
	movements := []*entity.Movement{
		receiptMov("item-1", 100, "order-1"),
		receiptMov("item-2", 50, "order-1"),
	}

	progress := stock.ReconcileReceipt(testOrder(), movements)

	assert.True(t, progress.Complete, "todos los renglones con pendiente 0")
	for _, l := range progress.Lines {
		assert.True(t, l.Pending.IsZero())
	}
}

func TestReconcileReceipt_SobreEntregaPendienteEnCero(t *testing.T) {
	movements := []*entity.Movement{receiptMov("item-1", 120, "order-1")}

	progress := stock.ReconcileReceipt(testOrder(), movements)

	assert.True(t, progress.Lines[0].Received.Equal(decimal.NewFromInt(120)))
	assert.True(t, progress.Lines[0].Pending.IsZero(), "pendiente = max(0, pedido - recibido)")
}

func TestReconcileReceipt_IgnoraMovimientosAjenos(t *testing.T) {
	movements := []*entity.Movement{
		receiptMov("item-1", 100, "otra-orden"),
		// una salida del mismo ítem no cuenta como recepción
		{SiteID: "site-1", ItemID: "item-1", Direction: entity.DirectionOUT,
			Quantity: decimal.NewFromInt(10),
			Ref:      entity.DocumentRef{Kind: entity.RefKindPurchaseOrder, ID: "order-1"}},
	}

	progress := stock.ReconcileReceipt(testOrder(), movements)

	assert.True(t, progress.Lines[0].Received.IsZero(),
		"solo los IN que referencian esta orden cuentan como recibido")
	assert.False(t, progress.Complete)
}
