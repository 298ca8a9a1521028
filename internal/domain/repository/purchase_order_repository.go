package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// PurchaseOrderRepository órdenes de compra (cabecera + renglones).
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate carga la orden bloqueando la cabecera (SELECT FOR UPDATE)
	// para serializar recepciones concurrentes sobre la misma orden.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// UpdateStatus avanza el estado; receivedAt solo se estampa al pasar a RECEIVED.
	UpdateStatus(ctx context.Context, id, status string, receivedAt *time.Time) error
}
