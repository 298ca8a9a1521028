package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// AlertRepository persiste los eventos que el core emite (stock bajo y
// propuestas de reposición) para que notificaciones/compras los consuman.
type AlertRepository interface {
	CreateLowStock(ctx context.Context, alert *entity.LowStockAlert) error
	CreateProposal(ctx context.Context, proposal *entity.ReplenishmentProposal) error
}
