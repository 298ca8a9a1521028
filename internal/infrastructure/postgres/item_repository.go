package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo maestro de medicamentos sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// GetByID obtiene un ítem con su política de reposición. Devuelve nil si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `
		SELECT id, code, name, uom, default_unit_cost, preferred_supplier_id,
		       reorder_point, safety_stock, avg_monthly_consumption, created_at, updated_at
		FROM items WHERE id = $1`
	var it entity.Item
	var supplierID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.Code, &it.Name, &it.UOM, &it.DefaultUnitCost, &supplierID,
		&it.Policy.ReorderPoint, &it.Policy.SafetyStock, &it.Policy.AvgMonthlyConsumption,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	if supplierID != nil {
		it.PreferredSupplierID = *supplierID
	}
	return &it, nil
}

// UpdatePolicy persiste la política de reposición del ítem.
func (r *ItemRepo) UpdatePolicy(ctx context.Context, itemID string, policy entity.ItemPolicy) error {
	query := `
		UPDATE items
		SET reorder_point = $2, safety_stock = $3, avg_monthly_consumption = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, itemID, policy.ReorderPoint, policy.SafetyStock, policy.AvgMonthlyConsumption)
	if err != nil {
		return fmt.Errorf("update item policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update item policy: ítem %s no existe", itemID)
	}
	return nil
}
