package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste cabecera y renglones. Los totales ya vienen recalculados
// desde los renglones por el caso de uso.
func (r *PurchaseOrderRepo) Create(ctx context.Context, order *entity.PurchaseOrder) error {
	headerQuery := `
		INSERT INTO purchase_orders
			(id, code, site_id, supplier_id, status, currency, tax_rate, subtotal, tax, total,
			 notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, headerQuery,
		order.ID, order.Code, order.SiteID, order.SupplierID, order.Status,
		order.Currency, order.TaxRate, order.Subtotal, order.Tax, order.Total,
		nullIfEmpty(order.Notes), nullIfEmpty(order.CreatedBy), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create purchase order: %w", errDuplicateOrder)
		}
		return fmt.Errorf("create purchase order: %w", err)
	}

	lineQuery := `
		INSERT INTO purchase_order_lines
			(id, order_id, line_no, item_id, quantity, unit_price, batch, expiry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, l := range order.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, order.ID, l.LineNo, l.ItemID, l.Quantity, l.UnitPrice,
			nullIfEmpty(l.Batch), l.Expiry,
		)
		if err != nil {
			return fmt.Errorf("create order line %d: %w", l.LineNo, err)
		}
	}
	return nil
}

var errDuplicateOrder = errors.New("orden duplicada")

// GetByID carga cabecera y renglones. Devuelve nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate carga la orden bloqueando la cabecera (SELECT FOR UPDATE)
// para serializar recepciones concurrentes sobre la misma orden.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, true)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, code, site_id, supplier_id, status, currency, tax_rate, subtotal, tax, total,
		       notes, received_at, created_by, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var o entity.PurchaseOrder
	var notes, createdBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Code, &o.SiteID, &o.SupplierID, &o.Status, &o.Currency,
		&o.TaxRate, &o.Subtotal, &o.Tax, &o.Total,
		&notes, &o.ReceivedAt, &createdBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	o.Notes = deref(notes)
	o.CreatedBy = deref(createdBy)

	lines, err := r.listLines(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *PurchaseOrderRepo) listLines(ctx context.Context, orderID string) ([]entity.PurchaseOrderLine, error) {
	query := `
		SELECT id, order_id, line_no, item_id, quantity, unit_price, batch, expiry
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		var batch *string
		if err := rows.Scan(&l.ID, &l.OrderID, &l.LineNo, &l.ItemID, &l.Quantity, &l.UnitPrice, &batch, &l.Expiry); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		l.Batch = deref(batch)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpdateStatus avanza el estado; receivedAt solo se estampa al pasar a RECEIVED.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, id, status string, receivedAt *time.Time) error {
	query := `
		UPDATE purchase_orders
		SET status = $2, received_at = COALESCE($3, received_at), updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status, receivedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order status: orden %s no existe", id)
	}
	return nil
}
