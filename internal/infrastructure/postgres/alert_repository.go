package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo persiste los eventos emitidos por el core (alertas de stock bajo
// y propuestas de reposición). Escribir en la misma tx del movimiento hace
// las veces de outbox: notificaciones y compras los leen de estas tablas.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// CreateLowStock persiste una alerta de stock bajo.
func (r *AlertRepo) CreateLowStock(ctx context.Context, a *entity.LowStockAlert) error {
	query := `
		INSERT INTO stock_alerts
			(id, site_id, item_id, stock, reorder_point, safety_stock,
			 daily_consumption, days_coverage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.SiteID, a.ItemID, a.Stock, a.ReorderPoint, a.SafetyStock,
		a.DailyConsumption, a.DaysCoverage, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create low stock alert: %w", err)
	}
	return nil
}

// CreateProposal persiste una propuesta de reposición.
func (r *AlertRepo) CreateProposal(ctx context.Context, p *entity.ReplenishmentProposal) error {
	query := `
		INSERT INTO replenishment_proposals
			(id, site_id, item_id, supplier_id, proposed_qty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, p.ID, p.SiteID, p.ItemID, p.SupplierID, p.ProposedQty, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create replenishment proposal: %w", err)
	}
	return nil
}
