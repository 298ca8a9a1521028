package postgres

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// repositorios atados a la tx. Las secuencias proyectar→guard→append del motor
// corren completas aquí dentro; una falla en cualquier pierna revierte todo.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Fallas de serialización o deadlock se devuelven como
// ErrConcurrencyConflict para que el caso de uso reintente acotadamente.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
	orderRepo repository.PurchaseOrderRepository,
	alertRepo repository.AlertRepository,
	locks inventory.ScopeLocker,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	itemRepo := NewItemRepository(tx)
	orderRepo := NewPurchaseOrderRepository(tx)
	alertRepo := NewAlertRepository(tx)
	locks := &scopeLocker{q: tx}

	if err := fn(movRepo, itemRepo, orderRepo, alertRepo, locks); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// scopeLocker serializa escritores de una misma llave (sede, ítem) con un
// advisory lock transaccional: se libera solo en Commit/Rollback, así el
// guard nunca corre contra una proyección que otro escritor va a invalidar.
type scopeLocker struct {
	q Querier
}

var _ inventory.ScopeLocker = (*scopeLocker)(nil)

// LockScope toma el lock exclusivo del scope dentro de la tx actual.
func (l *scopeLocker) LockScope(ctx context.Context, siteID, itemID string) error {
	_, err := l.q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", scopeLockKey(siteID, itemID))
	if err != nil {
		return fmt.Errorf("lock scope %s/%s: %w", siteID, itemID, err)
	}
	return nil
}

// scopeLockKey llave de 64 bits estable para la (sede, ítem).
func scopeLockKey(siteID, itemID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(siteID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(itemID))
	return int64(h.Sum64())
}
