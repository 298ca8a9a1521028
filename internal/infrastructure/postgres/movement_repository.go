package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo adaptador del libro de movimientos sobre PostgreSQL.
// La tabla stock_movements es append-only: este adaptador no expone UPDATE
// ni DELETE; una corrección es un movimiento nuevo que compensa.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, seq, site_id, item_id, direction, adjust_sign, quantity, uom,
	batch, expiry, unit_cost, ref_kind, ref_id, ref_code, reason, notes, created_by, created_at`

// Create agrega un movimiento al libro. El seq lo asigna la secuencia de la
// tabla y queda como desempate estable del kardex.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements
			(id, site_id, item_id, direction, adjust_sign, quantity, uom,
			 batch, expiry, unit_cost, ref_kind, ref_id, ref_code, reason, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.SiteID, m.ItemID, m.Direction, nullIfEmpty(m.AdjustSign),
		m.Quantity, m.UOM, nullIfEmpty(m.Batch), m.Expiry, m.UnitCost,
		nullIfEmpty(m.Ref.Kind), nullIfEmpty(m.Ref.ID), nullIfEmpty(m.Ref.Code),
		nullIfEmpty(m.Reason), nullIfEmpty(m.Notes), nullIfEmpty(m.CreatedBy), m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// CreateBatch agrega varios movimientos. El todo-o-nada lo da la transacción
// ambiente: este adaptador siempre corre dentro de un TxRunner en escrituras.
func (r *MovementRepo) CreateBatch(ctx context.Context, movements []*entity.Movement) error {
	for _, m := range movements {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// ListByScope devuelve los movimientos del scope en orden de commit.
func (r *MovementRepo) ListByScope(ctx context.Context, scope stock.Scope) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE site_id = $1 AND item_id = $2`
	args := []any{scope.SiteID, scope.ItemID}
	pos := 3
	if scope.Batch != "" {
		query += fmt.Sprintf(" AND batch = $%d", pos)
		args = append(args, scope.Batch)
		pos++
	}
	if scope.Expiry != nil {
		query += fmt.Sprintf(" AND expiry = $%d", pos)
		args = append(args, *scope.Expiry)
		pos++
	}
	query += " ORDER BY created_at, seq"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by scope: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByOrderRef devuelve los IN que referencian una orden de compra.
func (r *MovementRepo) ListByOrderRef(ctx context.Context, orderID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE ref_kind = $1 AND ref_id = $2 AND direction = $3
		ORDER BY created_at, seq`
	rows, err := r.q.Query(ctx, query, entity.RefKindPurchaseOrder, orderID, entity.DirectionIN)
	if err != nil {
		return nil, fmt.Errorf("list by order ref: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListExpiryScopes devuelve los scopes (ítem, lote, vencimiento) distintos de la
// sede con vencimiento en o antes del corte.
func (r *MovementRepo) ListExpiryScopes(ctx context.Context, siteID string, cutoff time.Time, itemID string) ([]stock.Scope, error) {
	query := `
		SELECT DISTINCT item_id, COALESCE(batch, ''), expiry
		FROM stock_movements
		WHERE site_id = $1 AND expiry IS NOT NULL AND expiry <= $2`
	args := []any{siteID, cutoff}
	if itemID != "" {
		query += " AND item_id = $3"
		args = append(args, itemID)
	}
	query += " ORDER BY item_id, COALESCE(batch, '')"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expiry scopes: %w", err)
	}
	defer rows.Close()

	var scopes []stock.Scope
	for rows.Next() {
		var sc stock.Scope
		var expiry time.Time
		if err := rows.Scan(&sc.ItemID, &sc.Batch, &expiry); err != nil {
			return nil, fmt.Errorf("scan expiry scope: %w", err)
		}
		sc.SiteID = siteID
		sc.Expiry = &expiry
		scopes = append(scopes, sc)
	}
	return scopes, rows.Err()
}

// ForEachInRange recorre los movimientos del scope en [from, to] ordenados por
// (created_at, seq), fila por fila, sin materializar el rango completo.
func (r *MovementRepo) ForEachInRange(ctx context.Context, scope stock.Scope, from, to *time.Time, fn func(*entity.Movement) error) error {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE site_id = $1 AND item_id = $2`
	args := []any{scope.SiteID, scope.ItemID}
	pos := 3
	if scope.Batch != "" {
		query += fmt.Sprintf(" AND batch = $%d", pos)
		args = append(args, scope.Batch)
		pos++
	}
	if scope.Expiry != nil {
		query += fmt.Sprintf(" AND expiry = $%d", pos)
		args = append(args, *scope.Expiry)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY created_at, seq"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("replay range: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var adjustSign, batch, refKind, refID, refCode, reason, notes, createdBy *string
	if err := row.Scan(
		&m.ID, &m.Seq, &m.SiteID, &m.ItemID, &m.Direction, &adjustSign,
		&m.Quantity, &m.UOM, &batch, &m.Expiry, &m.UnitCost,
		&refKind, &refID, &refCode, &reason, &notes, &createdBy, &m.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	m.AdjustSign = deref(adjustSign)
	m.Batch = deref(batch)
	m.Ref = entity.DocumentRef{Kind: deref(refKind), ID: deref(refID), Code: deref(refCode)}
	m.Reason = deref(reason)
	m.Notes = deref(notes)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
