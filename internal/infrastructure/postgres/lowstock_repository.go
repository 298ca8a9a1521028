package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.LowStockRepository = (*LowStockRepo)(nil)

// LowStockRepo listado de ítems bajo su punto de reorden. La suma con signo
// corre en SQL sobre el libro; el punto de reorden solo se compara con stock
// proyectado, jamás con un saldo almacenado.
type LowStockRepo struct {
	q Querier
}

// NewLowStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLowStockRepository(q Querier) *LowStockRepo {
	return &LowStockRepo{q: q}
}

// ListBelowReorder devuelve los ítems de la sede con stock <= reorder_point,
// paginados en orden estable por código.
func (r *LowStockRepo) ListBelowReorder(ctx context.Context, siteID string, limit, offset int) ([]repository.LowStockItem, error) {
	query := `
		SELECT i.id, i.code, i.name, i.uom, COALESCE(i.preferred_supplier_id::text, ''),
		       i.reorder_point, i.safety_stock, i.avg_monthly_consumption,
		       COALESCE(SUM(
		           CASE
		               WHEN m.direction = 'IN' THEN m.quantity
		               WHEN m.direction = 'OUT' THEN -m.quantity
		               WHEN m.adjust_sign = 'IN' THEN m.quantity
		               ELSE -m.quantity
		           END), 0) AS stock
		FROM items i
		JOIN stock_movements m ON m.item_id = i.id AND m.site_id = $1
		GROUP BY i.id, i.code, i.name, i.uom, i.preferred_supplier_id,
		         i.reorder_point, i.safety_stock, i.avg_monthly_consumption
		HAVING COALESCE(SUM(
		           CASE
		               WHEN m.direction = 'IN' THEN m.quantity
		               WHEN m.direction = 'OUT' THEN -m.quantity
		               WHEN m.adjust_sign = 'IN' THEN m.quantity
		               ELSE -m.quantity
		           END), 0) <= i.reorder_point
		ORDER BY i.code
		LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(ctx, query, siteID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list below reorder: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockItem
	for rows.Next() {
		var row repository.LowStockItem
		if err := rows.Scan(
			&row.Item.ID, &row.Item.Code, &row.Item.Name, &row.Item.UOM,
			&row.Item.PreferredSupplierID,
			&row.Item.Policy.ReorderPoint, &row.Item.Policy.SafetyStock,
			&row.Item.Policy.AvgMonthlyConsumption, &row.Stock,
		); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
